package validator

import (
	"fmt"
	"strings"
)

// ValidationError is a data failure: one field or row broke its rule.
type ValidationError struct {
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

func failf(cause error, format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

// BadValidatorError is a configuration failure: the rule references columns
// the rows do not have. It aborts the run instead of being counted.
type BadValidatorError struct {
	Rule    string
	Missing []string
}

func (e *BadValidatorError) Error() string {
	return fmt.Sprintf("%s: row does not contain the following unique_with fields: [%s]",
		e.Rule, strings.Join(e.Missing, ", "))
}
