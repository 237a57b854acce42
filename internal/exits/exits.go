// Package exits maps run outcomes to sysexits-style process exit codes.
package exits

import (
	"errors"

	"vladiate/internal/domain"
)

const (
	OK          = 0
	Error       = 1
	DataErr     = 65
	NoInput     = 66
	Unavailable = 69
)

// Code returns the exit code for a finished invocation. err takes
// precedence over passed.
func Code(passed bool, err error) int {
	switch {
	case err == nil && passed:
		return OK
	case err == nil:
		return DataErr
	case errors.Is(err, domain.ErrNoVladfile), errors.Is(err, domain.ErrNoVlads):
		return NoInput
	case errors.Is(err, domain.ErrUnknownVlad):
		return Unavailable
	default:
		return Error
	}
}
