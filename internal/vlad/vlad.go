// Package vlad runs a set of column and row rules over a delimited source
// and decides whether the source passes.
package vlad

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"vladiate/internal/csvrow"
	"vladiate/internal/domain"
	"vladiate/internal/logging"
	"vladiate/internal/port"
	"vladiate/internal/validator"
)

// Reporter receives the result of a finished run.
type Reporter interface {
	Report(res *Result)
}

type nopReporter struct{}

func (nopReporter) Report(*Result) {}

// Options configures a Vlad. Only Validators is required.
type Options struct {
	// Name identifies the vlad in reports. Defaults to "Vlad".
	Name string
	// Validators maps column names to the rules applied to them, in order.
	// A column with no rules gets a single DefaultValidator.
	Validators map[string][]validator.Validator
	// RowValidators run against every row before its fields.
	RowValidators []validator.RowValidator
	// DefaultValidator builds the rule for columns declared without rules.
	// Defaults to an EmptyValidator.
	DefaultValidator func() validator.Validator
	// Delimiter separates fields. Defaults to ','.
	Delimiter rune
	// Fieldnames, when set, is used as the header and the first record of
	// the source is treated as data.
	Fieldnames []string
	// IgnoreMissingValidators lets the run continue when the header has
	// columns without rules.
	IgnoreMissingValidators bool
	// FailureThreshold, when in (0, 1], aborts the run as soon as one rule's
	// fail count exceeds that fraction of the total row count.
	FailureThreshold float64
	// Reporter receives the result. Nil means no report.
	Reporter Reporter
	Logger   *zap.Logger
}

// Vlad validates one source against one rule set. A Vlad is single-use:
// Validate may be called once, after which its state describes that run.
type Vlad struct {
	name          string
	source        port.Source
	validators    map[string][]validator.Validator
	rowValidators []validator.RowValidator
	delimiter     rune
	fieldnames    []string
	ignoreMissing bool
	threshold     float64
	reporter      Reporter
	logger        *zap.Logger

	runID             uuid.UUID
	validated         bool
	outcome           domain.Outcome
	header            []string
	failures          map[string]map[int][]*validator.ValidationError
	rowFailures       map[int][]*validator.ValidationError
	invalidLines      map[int]struct{}
	missingValidators []string
	missingFields     []string
	lineCount         int
	totalLines        int
	breach            *Breach
	startedAt         time.Time
	duration          time.Duration
}

// New builds a Vlad over src.
func New(src port.Source, opts Options) (*Vlad, error) {
	if src == nil {
		return nil, errors.New("vlad: source is required")
	}
	if opts.FailureThreshold < 0 || opts.FailureThreshold > 1 {
		return nil, fmt.Errorf("vlad: failure threshold must be in (0, 1], got %v", opts.FailureThreshold)
	}

	name := opts.Name
	if name == "" {
		name = "Vlad"
	}
	delimiter := opts.Delimiter
	if delimiter == 0 {
		delimiter = csvrow.DefaultDelimiter
	}
	newDefault := opts.DefaultValidator
	if newDefault == nil {
		newDefault = func() validator.Validator { return validator.NewEmptyValidator() }
	}
	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	validators := make(map[string][]validator.Validator, len(opts.Validators))
	for col, rules := range opts.Validators {
		if len(rules) == 0 {
			validators[col] = []validator.Validator{newDefault()}
			continue
		}
		validators[col] = append([]validator.Validator(nil), rules...)
	}

	return &Vlad{
		name:          name,
		source:        src,
		validators:    validators,
		rowValidators: append([]validator.RowValidator(nil), opts.RowValidators...),
		delimiter:     delimiter,
		fieldnames:    append([]string(nil), opts.Fieldnames...),
		ignoreMissing: opts.IgnoreMissingValidators,
		threshold:     opts.FailureThreshold,
		reporter:      reporter,
		logger:        logging.OrNop(opts.Logger).With(zap.String("vlad", name)),
		runID:         uuid.New(),
		failures:      make(map[string]map[int][]*validator.ValidationError),
		rowFailures:   make(map[int][]*validator.ValidationError),
		invalidLines:  make(map[int]struct{}),
	}, nil
}

// Validate runs the rules over the source and reports whether it passed.
// Schema problems (no header, columns without rules, rules without columns)
// yield false without an error. A *validator.BadValidatorError, a source
// failure or a cancelled ctx is returned as an error.
func (v *Vlad) Validate(ctx context.Context) (bool, error) {
	if v.validated {
		return false, domain.ErrAlreadyValidated
	}
	v.validated = true
	v.startedAt = time.Now()

	v.logger.Debug("validating", zap.String("source", v.source.String()), zap.String("run_id", v.runID.String()))
	err := v.run(ctx)
	v.duration = time.Since(v.startedAt)
	if err != nil {
		return false, err
	}

	v.logFailures()
	v.reporter.Report(v.Result())
	return v.outcome == domain.OutcomePassed, nil
}

func (v *Vlad) run(ctx context.Context) error {
	rc, err := v.source.Open(ctx)
	if err != nil {
		return fmt.Errorf("opening source %s: %w", v.source, err)
	}
	defer func() { _ = rc.Close() }()

	rd := csvrow.NewReader(rc, v.delimiter, v.fieldnames)
	header, err := rd.Header()
	if err != nil {
		return fmt.Errorf("reading %s: %w", v.source, err)
	}
	if len(header) == 0 {
		v.outcome = domain.OutcomeNoFieldnames
		return nil
	}
	v.header = uniqueColumns(header)

	v.missingValidators = v.columnsWithoutRules()
	if len(v.missingValidators) > 0 && !v.ignoreMissing {
		v.outcome = domain.OutcomeMissingValidators
		return nil
	}

	v.missingFields = v.rulesWithoutColumns()
	if len(v.missingFields) > 0 {
		v.outcome = domain.OutcomeMissingFields
		return nil
	}

	if v.threshold > 0 {
		if v.totalLines, err = v.countLines(ctx); err != nil {
			return err
		}
	}

	for line := 0; ; line++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := rd.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", v.source, err)
		}

		aborted, err := v.validateRow(line, row)
		if err != nil {
			return err
		}
		if aborted {
			v.outcome = domain.OutcomeThresholdExceeded
			return nil
		}
	}

	if len(v.failures) > 0 || len(v.rowFailures) > 0 {
		v.outcome = domain.OutcomeFailed
	} else {
		v.outcome = domain.OutcomePassed
	}
	return nil
}

// validateRow applies every rule to row. It reports true when the failure
// threshold was crossed, which stops the run before the remaining fields of
// the row are checked.
func (v *Vlad) validateRow(line int, row csvrow.Row) (bool, error) {
	v.lineCount++

	for _, rv := range v.rowValidators {
		err := rv.ValidateRow(row)
		if err == nil {
			continue
		}
		var verr *validator.ValidationError
		if !errors.As(err, &verr) {
			return false, err
		}
		v.rowFailures[line] = append(v.rowFailures[line], verr)
		v.invalidLines[v.lineCount] = struct{}{}
	}

	var last validator.Validator
	var lastColumn string
	for _, col := range v.header {
		rules, ok := v.validators[col]
		if ok {
			field := row.Get(col)
			for _, fv := range rules {
				last, lastColumn = fv, col
				err := fv.Validate(field, row)
				if err == nil {
					continue
				}
				var verr *validator.ValidationError
				if !errors.As(err, &verr) {
					return false, err
				}
				if v.failures[col] == nil {
					v.failures[col] = make(map[int][]*validator.ValidationError)
				}
				v.failures[col][line] = append(v.failures[col][line], verr)
				v.invalidLines[v.lineCount] = struct{}{}
			}
		}

		if v.threshold > 0 && v.totalLines > 0 && last != nil {
			ratio := float64(last.FailCount()) / float64(v.totalLines)
			if ratio > v.threshold {
				v.breach = &Breach{
					Column:     lastColumn,
					Rule:       last.RuleName(),
					FailCount:  last.FailCount(),
					TotalLines: v.totalLines,
					Ratio:      ratio,
				}
				return true, nil
			}
		}
	}
	return false, nil
}

func (v *Vlad) countLines(ctx context.Context) (int, error) {
	rc, err := v.source.Open(ctx)
	if err != nil {
		return 0, fmt.Errorf("reopening source %s: %w", v.source, err)
	}
	defer func() { _ = rc.Close() }()

	n, err := csvrow.Count(rc, v.delimiter, v.fieldnames)
	if err != nil {
		return 0, fmt.Errorf("counting rows of %s: %w", v.source, err)
	}
	return n, nil
}

func (v *Vlad) columnsWithoutRules() []string {
	var out []string
	for _, col := range v.header {
		if _, ok := v.validators[col]; !ok {
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

func (v *Vlad) rulesWithoutColumns() []string {
	inHeader := make(map[string]bool, len(v.header))
	for _, col := range v.header {
		inHeader[col] = true
	}
	var out []string
	for col := range v.validators {
		if !inHeader[col] {
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

func (v *Vlad) logFailures() {
	if !v.logger.Core().Enabled(zap.DebugLevel) {
		return
	}
	for _, line := range sortedLines(v.rowFailures) {
		for _, err := range v.rowFailures[line] {
			v.logger.Debug("row failure", zap.Int("line", line+1), zap.Error(err))
		}
	}
	for _, col := range v.columnOrder() {
		byLine := v.failures[col]
		for _, line := range sortedLines(byLine) {
			for _, err := range byLine[line] {
				v.logger.Debug("field failure",
					zap.String("column", col),
					zap.String("location", fmt.Sprintf("%s:%d", v.source, line+1)),
					zap.Error(err))
			}
		}
	}
}

// columnOrder lists configured columns in header order, followed by
// configured columns absent from the header in sorted order.
func (v *Vlad) columnOrder() []string {
	out := make([]string, 0, len(v.validators))
	seen := make(map[string]bool, len(v.validators))
	for _, col := range v.header {
		if _, ok := v.validators[col]; ok && !seen[col] {
			out = append(out, col)
			seen[col] = true
		}
	}
	var rest []string
	for col := range v.validators {
		if !seen[col] {
			rest = append(rest, col)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func uniqueColumns(header []string) []string {
	seen := make(map[string]bool, len(header))
	out := make([]string, 0, len(header))
	for _, col := range header {
		if !seen[col] {
			seen[col] = true
			out = append(out, col)
		}
	}
	return out
}

func sortedLines[T any](m map[int]T) []int {
	out := make([]int, 0, len(m))
	for line := range m {
		out = append(out, line)
	}
	sort.Ints(out)
	return out
}
