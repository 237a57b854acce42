package validator

import (
	"errors"
	"math/big"
	"strconv"

	"vladiate/internal/csvrow"
)

var errNotInteger = errors.New("invalid syntax for base 10 integer")

// CastValidator checks that a field parses as a number.
type CastValidator struct {
	counter
	ruleKey  string
	ruleName string
	typeName string
	emptyOK  bool
	cast     func(string) error
	invalid  valueSet
}

// NewFloatValidator accepts anything strconv.ParseFloat accepts.
func NewFloatValidator(emptyOK bool) *CastValidator {
	return &CastValidator{
		ruleKey:  RuleFloat,
		ruleName: "FloatValidator",
		typeName: "float",
		emptyOK:  emptyOK,
		cast: func(s string) error {
			_, err := strconv.ParseFloat(s, 64)
			return err
		},
	}
}

// NewIntValidator accepts base-10 integers of any size. Fractional text such
// as "42.0" is rejected.
func NewIntValidator(emptyOK bool) *CastValidator {
	return &CastValidator{
		ruleKey:  RuleInt,
		ruleName: "IntValidator",
		typeName: "int",
		emptyOK:  emptyOK,
		cast: func(s string) error {
			if _, ok := new(big.Int).SetString(s, 10); !ok {
				return errNotInteger
			}
			return nil
		},
	}
}

func (v *CastValidator) RuleKey() string  { return v.ruleKey }
func (v *CastValidator) RuleName() string { return v.ruleName }

func (v *CastValidator) Validate(field string, _ csvrow.Row) error {
	if field == "" && v.emptyOK {
		return nil
	}
	if err := v.cast(field); err != nil {
		v.invalid.add(field)
		return v.fail(failf(err, "could not convert string to %s: '%s'", v.typeName, field))
	}
	return nil
}

func (v *CastValidator) Bad() Bad {
	return v.invalid.bad()
}
