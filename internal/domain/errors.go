package domain

import "errors"

var (
	ErrMissingCapability = errors.New("source requires object storage, which is not configured")
	ErrInvalidSourcePath = errors.New("invalid source location")
	ErrUnknownSource     = errors.New("unknown source type")
	ErrUnknownRule       = errors.New("unknown validation rule")
	ErrInvalidRuleConfig = errors.New("invalid validation rule configuration")
	ErrNoVladfile        = errors.New("could not find any vladfile")
	ErrNoVlads           = errors.New("no vlad found")
	ErrUnknownVlad       = errors.New("unknown vlad")
	ErrAlreadyValidated  = errors.New("vlad has already been validated")
)
