package validator

import (
	"strconv"

	"vladiate/internal/csvrow"
)

// RangeValidator checks that a field is a number within [low, high].
// Text that does not parse counts as out of range.
type RangeValidator struct {
	counter
	low     float64
	high    float64
	emptyOK bool
	outside valueSet
}

func NewRangeValidator(low, high float64, emptyOK bool) *RangeValidator {
	return &RangeValidator{low: low, high: high, emptyOK: emptyOK}
}

func (v *RangeValidator) RuleKey() string  { return RuleRange }
func (v *RangeValidator) RuleName() string { return "RangeValidator" }

func (v *RangeValidator) Validate(field string, _ csvrow.Row) error {
	if field == "" && v.emptyOK {
		return nil
	}
	value, err := strconv.ParseFloat(field, 64)
	if err == nil && v.low <= value && value <= v.high {
		return nil
	}
	v.outside.add(field)
	return v.fail(failf(err, "'%s' is not in range %s to %s",
		field, formatBound(v.low), formatBound(v.high)))
}

func (v *RangeValidator) Bad() Bad {
	return v.outside.bad()
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
