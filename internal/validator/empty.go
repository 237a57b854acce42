package validator

import (
	"vladiate/internal/csvrow"
)

// EmptyValidator requires the field to be empty. It is the default rule for
// columns declared without any rules.
type EmptyValidator struct {
	counter
	nonEmpty valueSet
}

func NewEmptyValidator() *EmptyValidator {
	return &EmptyValidator{}
}

func (v *EmptyValidator) RuleKey() string  { return RuleEmpty }
func (v *EmptyValidator) RuleName() string { return "EmptyValidator" }

func (v *EmptyValidator) Validate(field string, _ csvrow.Row) error {
	if field == "" {
		return nil
	}
	v.nonEmpty.add(field)
	return v.fail(failf(nil, "'%s' is not an empty string", field))
}

func (v *EmptyValidator) Bad() Bad {
	return v.nonEmpty.bad()
}

// NotEmptyValidator requires the field to be non-empty. Its Bad is a flag,
// not a set of values.
type NotEmptyValidator struct {
	counter
	failed bool
}

func NewNotEmptyValidator() *NotEmptyValidator {
	return &NotEmptyValidator{}
}

func (v *NotEmptyValidator) RuleKey() string  { return RuleNotEmpty }
func (v *NotEmptyValidator) RuleName() string { return "NotEmptyValidator" }

func (v *NotEmptyValidator) Validate(field string, _ csvrow.Row) error {
	if field != "" {
		return nil
	}
	v.failed = true
	return v.fail(failf(nil, "row has empty field in column"))
}

func (v *NotEmptyValidator) Bad() Bad {
	return Bad{Kind: BadFlag, Flag: v.failed}
}

// Ignore accepts every field.
type Ignore struct {
	counter
}

func NewIgnore() *Ignore {
	return &Ignore{}
}

func (v *Ignore) RuleKey() string                   { return RuleIgnore }
func (v *Ignore) RuleName() string                  { return "Ignore" }
func (v *Ignore) Validate(string, csvrow.Row) error { return nil }
func (v *Ignore) Bad() Bad                          { return Bad{Kind: BadNone} }
