package validator

import (
	"fmt"
	"regexp"

	"vladiate/internal/csvrow"
)

// DefaultPattern never matches anything.
const DefaultPattern = `di^`

// RegexValidator checks a field against a regular expression. By default the
// pattern must match at the start of the field; with full it must match the
// whole field.
type RegexValidator struct {
	counter
	pattern string
	re      *regexp.Regexp
	emptyOK bool
	invalid valueSet
}

// NewRegexValidator compiles pattern. An empty pattern means DefaultPattern.
func NewRegexValidator(pattern string, full, emptyOK bool) (*RegexValidator, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	anchored := `^(?:` + pattern + `)`
	if full {
		anchored += `$`
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return &RegexValidator{pattern: pattern, re: re, emptyOK: emptyOK}, nil
}

func (v *RegexValidator) RuleKey() string  { return RuleRegex }
func (v *RegexValidator) RuleName() string { return "RegexValidator" }

func (v *RegexValidator) Validate(field string, _ csvrow.Row) error {
	if field == "" && v.emptyOK {
		return nil
	}
	if v.re.MatchString(field) {
		return nil
	}
	v.invalid.add(field)
	return v.fail(failf(nil, "'%s' does not match pattern /%s/", field, v.pattern))
}

func (v *RegexValidator) Bad() Bad {
	return v.invalid.bad()
}
