// Package validator holds the column and row rules a vlad applies to its input.
package validator

import (
	"vladiate/internal/csvrow"
)

// Validator is a single-column rule. Implementations are stateful: they
// remember failing values for reporting and, for uniqueness, the values seen
// so far. A Validator must not be shared between concurrent runs.
type Validator interface {
	// Validate checks field, with row as context. It returns a
	// *ValidationError for bad data and a *BadValidatorError when the rule is
	// misconfigured for the input.
	Validate(field string, row csvrow.Row) error
	Bad() Bad
	FailCount() int
	RuleKey() string
	RuleName() string
}

// RowValidator is a rule over a whole row.
type RowValidator interface {
	ValidateRow(row csvrow.Row) error
	Bad() Bad
	FailCount() int
	RuleKey() string
	RuleName() string
}

// Rule keys, as used in vladfiles and the registry.
const (
	RuleFloat     = "float"
	RuleInt       = "int"
	RuleSet       = "set"
	RuleUnique    = "unique"
	RuleRegex     = "regex"
	RuleRange     = "range"
	RuleEmpty     = "empty"
	RuleNotEmpty  = "not_empty"
	RuleIgnore    = "ignore"
	RuleRowLength = "row_length"
)

// counter carries the fail count every rule keeps.
type counter struct {
	failCount int
}

func (c *counter) FailCount() int { return c.failCount }

func (c *counter) fail(err *ValidationError) *ValidationError {
	c.failCount++
	return err
}
