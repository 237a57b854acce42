package validator

import (
	"fmt"
	"sort"
	"strings"

	"vladiate/internal/csvrow"
)

// SetValidator checks that a field is one of a fixed set of strings.
type SetValidator struct {
	counter
	allowed         valueSet
	display         []string
	caseInsensitive bool
	invalid         valueSet
}

// SetOption configures a SetValidator.
type SetOption func(*SetValidator)

// WithEmptyOK lets the empty string through.
func WithEmptyOK() SetOption {
	return func(v *SetValidator) { v.allow("") }
}

// WithCaseInsensitive compares lower-cased values. Reported values keep their casing.
func WithCaseInsensitive() SetOption {
	return func(v *SetValidator) { v.caseInsensitive = true }
}

// NewSetValidator builds a SetValidator over allowed.
func NewSetValidator(allowed []string, opts ...SetOption) *SetValidator {
	v := &SetValidator{}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	for _, a := range allowed {
		v.allow(a)
	}
	sort.Strings(v.display)
	return v
}

func (v *SetValidator) allow(value string) {
	if v.allowed.add(v.normalize(value)) {
		v.display = append(v.display, value)
	}
}

func (v *SetValidator) normalize(value string) string {
	if v.caseInsensitive {
		return strings.ToLower(value)
	}
	return value
}

func (v *SetValidator) RuleKey() string  { return RuleSet }
func (v *SetValidator) RuleName() string { return "SetValidator" }

func (v *SetValidator) Validate(field string, _ csvrow.Row) error {
	if v.allowed.has(v.normalize(field)) {
		return nil
	}
	v.invalid.add(field)
	return v.fail(failf(nil, "'%s' is not in %s", field, v.describe()))
}

func (v *SetValidator) describe() string {
	quoted := make([]string, len(v.display))
	for i, d := range v.display {
		quoted[i] = fmt.Sprintf("'%s'", d)
	}
	return "{" + strings.Join(quoted, ", ") + "}"
}

func (v *SetValidator) Bad() Bad {
	return v.invalid.bad()
}
