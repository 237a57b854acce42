package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vladiate/internal/csvrow"
	"vladiate/internal/validator"
)

var emptyRow = csvrow.Row{}

func assertFails(t *testing.T, v validator.Validator, field string, row csvrow.Row) *validator.ValidationError {
	t.Helper()
	err := v.Validate(field, row)
	require.Error(t, err)
	var verr *validator.ValidationError
	require.True(t, errors.As(err, &verr), "expected a ValidationError, got %T", err)
	return verr
}

func TestCastValidator(t *testing.T) {
	tests := []struct {
		name    string
		build   func(emptyOK bool) *validator.CastValidator
		emptyOK bool
		pass    []string
		fail    []string
	}{
		{"float", validator.NewFloatValidator, false, []string{"42", "42.0", "-1e3", "inf", "NaN"}, []string{"", "foo", "4,2"}},
		{"float empty ok", validator.NewFloatValidator, true, []string{"", "3.14"}, []string{"pi"}},
		{"int", validator.NewIntValidator, false, []string{"42", "-7", "123456789012345678901234567890"}, []string{"", "42.0", "4e2", "foo"}},
		{"int empty ok", validator.NewIntValidator, true, []string{"", "0"}, []string{"1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.build(tt.emptyOK)
			for _, f := range tt.pass {
				assert.NoError(t, v.Validate(f, emptyRow), "field %q", f)
			}
			for _, f := range tt.fail {
				assertFails(t, v, f, emptyRow)
			}
			assert.Equal(t, len(tt.fail), v.FailCount())
			assert.Equal(t, validator.BadValues, v.Bad().Kind)
			assert.Equal(t, tt.fail, v.Bad().Values)
		})
	}
}

func TestCastValidator_Message(t *testing.T) {
	v := validator.NewIntValidator(false)
	verr := assertFails(t, v, "foo", emptyRow)
	assert.Equal(t, "could not convert string to int: 'foo'", verr.Error())
	assert.Error(t, errors.Unwrap(verr))
}

func TestSetValidator(t *testing.T) {
	v := validator.NewSetValidator([]string{"Vampire", "Not A Vampire"})

	assert.NoError(t, v.Validate("Vampire", emptyRow))
	verr := assertFails(t, v, "Ghoul", emptyRow)
	assert.Equal(t, "'Ghoul' is not in {'Not A Vampire', 'Vampire'}", verr.Error())
	assertFails(t, v, "", emptyRow)
	assertFails(t, v, "Ghoul", emptyRow)

	assert.Equal(t, []string{"Ghoul", ""}, v.Bad().Values)
	assert.Equal(t, 3, v.FailCount())
}

func TestSetValidator_EmptyOK(t *testing.T) {
	v := validator.NewSetValidator([]string{"Vampire", "Not A Vampire"}, validator.WithEmptyOK())

	assert.NoError(t, v.Validate("", emptyRow))
	assert.False(t, v.Bad().Any())
}

func TestSetValidator_CaseInsensitive(t *testing.T) {
	v := validator.NewSetValidator([]string{"Vampire"}, validator.WithCaseInsensitive())

	assert.NoError(t, v.Validate("VAMPIRE", emptyRow))
	assert.NoError(t, v.Validate("vampire", emptyRow))
	assertFails(t, v, "GHOUL", emptyRow)
	assert.Equal(t, []string{"GHOUL"}, v.Bad().Values, "reported values keep their casing")
}

func TestUniqueValidator(t *testing.T) {
	v := validator.NewUniqueValidator(nil, false)

	assert.NoError(t, v.Validate("foo", emptyRow))
	assert.NoError(t, v.Validate("bar", emptyRow))
	verr := assertFails(t, v, "bar", emptyRow)
	assert.Equal(t, "'bar' is already in the column", verr.Error())

	bad := v.Bad()
	assert.Equal(t, validator.BadKeys, bad.Kind)
	assert.Equal(t, [][]string{{"bar"}}, bad.Keys)
	assert.Equal(t, []string{"bar"}, bad.Items())
	assert.Equal(t, 1, v.FailCount())
}

func TestUniqueValidator_UniqueWith(t *testing.T) {
	header := []string{"Name", "Town", "Year"}
	v := validator.NewUniqueValidator([]string{"Town"}, false)

	rows := [][]string{
		{"Vlad", "Bran", "1462"},
		{"Vlad", "Sighisoara", "1431"},
		{"Vlad", "Bran", "1476"},
	}
	assert.NoError(t, v.Validate("Vlad", csvrow.NewRow(header, rows[0])))
	assert.NoError(t, v.Validate("Vlad", csvrow.NewRow(header, rows[1])))
	verr := assertFails(t, v, "Vlad", csvrow.NewRow(header, rows[2]))
	assert.Equal(t, "'Vlad' is already in the column (unique with: Bran)", verr.Error())

	assert.Equal(t, [][]string{{"Vlad", "Bran"}}, v.Bad().Keys)
	assert.Equal(t, []string{`("Vlad", "Bran")`}, v.Bad().Items())
}

func TestUniqueValidator_MissingUniqueWithColumn(t *testing.T) {
	header := []string{"Name"}
	v := validator.NewUniqueValidator([]string{"Town", "Name"}, false)

	err := v.Validate("Vlad", csvrow.NewRow(header, []string{"Vlad"}))
	var bad *validator.BadValidatorError
	require.True(t, errors.As(err, &bad))
	assert.Equal(t, []string{"Town"}, bad.Missing)
	assert.Contains(t, bad.Error(), "[Town]")
	assert.Equal(t, 0, v.FailCount(), "configuration errors are not counted")

	err = v.Validate("Vlad", csvrow.NewRow(header, []string{"Vlad"}))
	assert.True(t, errors.As(err, &bad), "the configuration error repeats on later calls")
}

func TestUniqueValidator_EmptyOK(t *testing.T) {
	v := validator.NewUniqueValidator(nil, true)

	assert.NoError(t, v.Validate("", emptyRow))
	assert.NoError(t, v.Validate("", emptyRow))
	assert.False(t, v.Bad().Any())
}

func TestRegexValidator(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		full    bool
		emptyOK bool
		pass    []string
		fail    []string
	}{
		{"prefix match", `\d+`, false, false, []string{"42", "42abc"}, []string{"abc42", ""}},
		{"full match", `\d+`, true, false, []string{"42"}, []string{"42abc", ""}},
		{"empty ok", `\d+`, true, true, []string{"", "7"}, []string{"x"}},
		{"default never matches", "", false, false, nil, []string{"", "di", "anything"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := validator.NewRegexValidator(tt.pattern, tt.full, tt.emptyOK)
			require.NoError(t, err)
			for _, f := range tt.pass {
				assert.NoError(t, v.Validate(f, emptyRow), "field %q", f)
			}
			for _, f := range tt.fail {
				assertFails(t, v, f, emptyRow)
			}
			assert.Equal(t, len(tt.fail), v.FailCount())
		})
	}
}

func TestRegexValidator_InvalidPattern(t *testing.T) {
	_, err := validator.NewRegexValidator(`(`, false, false)
	assert.Error(t, err)
}

func TestRangeValidator(t *testing.T) {
	v := validator.NewRangeValidator(0, 100, false)

	assert.NoError(t, v.Validate("42", emptyRow))
	assert.NoError(t, v.Validate("0", emptyRow))
	assert.NoError(t, v.Validate("100", emptyRow))

	verr := assertFails(t, v, "-42", emptyRow)
	assert.Equal(t, "'-42' is not in range 0 to 100", verr.Error())
	assert.Equal(t, []string{"-42"}, v.Bad().Values)

	assertFails(t, v, "foobar", emptyRow)
	assert.Equal(t, []string{"-42", "foobar"}, v.Bad().Values)

	assertFails(t, v, "", emptyRow)
}

func TestRangeValidator_EmptyOK(t *testing.T) {
	v := validator.NewRangeValidator(0, 100, true)
	assert.NoError(t, v.Validate("", emptyRow))
	assert.Equal(t, 0, v.FailCount())
}

func TestEmptyValidator(t *testing.T) {
	v := validator.NewEmptyValidator()

	assert.NoError(t, v.Validate("", emptyRow))
	for _, f := range []string{"a", " ", "a"} {
		assertFails(t, v, f, emptyRow)
	}
	assert.Equal(t, []string{"a", " "}, v.Bad().Values)
	assert.Equal(t, 3, v.FailCount())
}

func TestNotEmptyValidator(t *testing.T) {
	v := validator.NewNotEmptyValidator()

	assert.NoError(t, v.Validate("Vlad", emptyRow))
	assert.False(t, v.Bad().Any())

	assertFails(t, v, "", emptyRow)
	bad := v.Bad()
	assert.Equal(t, validator.BadFlag, bad.Kind)
	assert.True(t, bad.Flag)
	assert.False(t, bad.Iterable())
	assert.Nil(t, bad.Items())
}

func TestIgnore(t *testing.T) {
	v := validator.NewIgnore()

	for _, f := range []string{"", "anything", "42"} {
		assert.NoError(t, v.Validate(f, emptyRow))
	}
	assert.Equal(t, validator.BadNone, v.Bad().Kind)
	assert.False(t, v.Bad().Any())
	assert.Equal(t, 0, v.FailCount())
}

func TestRowLengthValidator(t *testing.T) {
	header := []string{"a", "b"}
	v := validator.NewRowLengthValidator()

	assert.NoError(t, v.ValidateRow(csvrow.NewRow(header, []string{"1", "2"})))

	err := v.ValidateRow(csvrow.NewRow(header, []string{"1"}))
	require.Error(t, err)
	assert.Equal(t, "expected 2 fields, found 1", err.Error())

	err = v.ValidateRow(csvrow.NewRow(header, []string{"1", "2", "3"}))
	require.Error(t, err)
	assert.Equal(t, "expected 2 fields, found 3", err.Error())

	bad := v.Bad()
	assert.Equal(t, validator.BadRows, bad.Kind)
	assert.Len(t, bad.Rows, 2)
	assert.Equal(t, 2, v.FailCount())
}
