package validator

import (
	"vladiate/internal/csvrow"
)

// RowLengthValidator fails rows whose width differs from the header's.
type RowLengthValidator struct {
	counter
	rows []csvrow.Row
}

func NewRowLengthValidator() *RowLengthValidator {
	return &RowLengthValidator{}
}

func (v *RowLengthValidator) RuleKey() string  { return RuleRowLength }
func (v *RowLengthValidator) RuleName() string { return "RowLengthValidator" }

func (v *RowLengthValidator) ValidateRow(row csvrow.Row) error {
	if !row.Ragged() {
		return nil
	}
	v.rows = append(v.rows, row)
	return v.fail(failf(nil, "expected %d fields, found %d", row.Expected(), row.Width()))
}

func (v *RowLengthValidator) Bad() Bad {
	return Bad{Kind: BadRows, Rows: append([]csvrow.Row(nil), v.rows...)}
}
