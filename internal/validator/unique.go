package validator

import (
	"strings"

	"vladiate/internal/csvrow"
)

// UniqueValidator checks that a field, optionally combined with other
// columns, never repeats within a run.
type UniqueValidator struct {
	counter
	uniqueWith []string
	emptyOK    bool
	checked    bool
	configErr  *BadValidatorError
	seen       keySet
	duplicates keySet
}

// NewUniqueValidator builds a UniqueValidator. The uniqueness key is the field
// followed by the values of uniqueWith, in order. With emptyOK, empty fields
// are not checked.
func NewUniqueValidator(uniqueWith []string, emptyOK bool) *UniqueValidator {
	return &UniqueValidator{
		uniqueWith: append([]string(nil), uniqueWith...),
		emptyOK:    emptyOK,
	}
}

func (v *UniqueValidator) RuleKey() string  { return RuleUnique }
func (v *UniqueValidator) RuleName() string { return "UniqueValidator" }

func (v *UniqueValidator) precheck(row csvrow.Row) {
	v.checked = true
	var missing []string
	for _, col := range v.uniqueWith {
		if !row.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		v.configErr = &BadValidatorError{Rule: v.RuleName(), Missing: missing}
	}
}

func (v *UniqueValidator) Validate(field string, row csvrow.Row) error {
	if len(v.uniqueWith) > 0 && !v.checked {
		v.precheck(row)
	}
	if v.configErr != nil {
		return v.configErr
	}
	if field == "" && v.emptyOK {
		return nil
	}

	key := make([]string, 0, len(v.uniqueWith)+1)
	key = append(key, field)
	for _, col := range v.uniqueWith {
		key = append(key, row.Get(col))
	}
	if v.seen.add(key) {
		return nil
	}

	v.duplicates.add(key)
	if len(v.uniqueWith) > 0 {
		return v.fail(failf(nil, "'%s' is already in the column (unique with: %s)",
			field, strings.Join(key[1:], ", ")))
	}
	return v.fail(failf(nil, "'%s' is already in the column", field))
}

func (v *UniqueValidator) Bad() Bad {
	keys := make([][]string, len(v.duplicates.order))
	copy(keys, v.duplicates.order)
	return Bad{Kind: BadKeys, Keys: keys}
}
