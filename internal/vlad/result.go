package vlad

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"vladiate/internal/domain"
	"vladiate/internal/validator"
)

// Breach describes the rule that pushed a run over its failure threshold.
type Breach struct {
	Column     string
	Rule       string
	FailCount  int
	TotalLines int
	Ratio      float64
}

// RuleReport summarises one rule after a run. Column is empty for row rules.
type RuleReport struct {
	Column    string
	Rule      string
	RuleKey   string
	FailCount int
	Bad       validator.Bad
}

// Failure holds the messages recorded for one line. Line is 1-based.
type Failure struct {
	Column   string
	Line     int
	Messages []string
}

// Result is the structured outcome of a run, in deterministic order.
type Result struct {
	RunID             uuid.UUID
	Name              string
	Source            string
	Outcome           domain.Outcome
	Passed            bool
	LineCount         int
	TotalLines        int
	MissingValidators []string
	MissingFields     []string
	InvalidLines      []int
	Fields            []RuleReport
	Rows              []RuleReport
	FieldFailures     []Failure
	RowFailures       []Failure
	Breach            *Breach
	StartedAt         time.Time
	Duration          time.Duration
}

// Result snapshots the run state. It is meaningful once Validate returned.
func (v *Vlad) Result() *Result {
	res := &Result{
		RunID:             v.runID,
		Name:              v.name,
		Source:            v.source.String(),
		Outcome:           v.outcome,
		Passed:            v.outcome == domain.OutcomePassed,
		LineCount:         v.lineCount,
		TotalLines:        v.totalLines,
		MissingValidators: append([]string(nil), v.missingValidators...),
		MissingFields:     append([]string(nil), v.missingFields...),
		InvalidLines:      v.InvalidLines(),
		StartedAt:         v.startedAt,
		Duration:          v.duration,
	}
	if v.breach != nil {
		b := *v.breach
		res.Breach = &b
	}

	for _, rv := range v.rowValidators {
		res.Rows = append(res.Rows, RuleReport{
			Rule:      rv.RuleName(),
			RuleKey:   rv.RuleKey(),
			FailCount: rv.FailCount(),
			Bad:       rv.Bad(),
		})
	}
	for _, col := range v.columnOrder() {
		for _, fv := range v.validators[col] {
			res.Fields = append(res.Fields, RuleReport{
				Column:    col,
				Rule:      fv.RuleName(),
				RuleKey:   fv.RuleKey(),
				FailCount: fv.FailCount(),
				Bad:       fv.Bad(),
			})
		}
	}

	for _, line := range sortedLines(v.rowFailures) {
		res.RowFailures = append(res.RowFailures, Failure{
			Line:     line + 1,
			Messages: messages(v.rowFailures[line]),
		})
	}
	for _, col := range v.columnOrder() {
		byLine := v.failures[col]
		for _, line := range sortedLines(byLine) {
			res.FieldFailures = append(res.FieldFailures, Failure{
				Column:   col,
				Line:     line + 1,
				Messages: messages(byLine[line]),
			})
		}
	}
	return res
}

// Records flattens the failures for export.
func (r *Result) Records() []domain.FailureRecord {
	out := make([]domain.FailureRecord, 0, len(r.RowFailures)+len(r.FieldFailures))
	add := func(scope domain.FailureScope, f Failure) {
		for _, msg := range f.Messages {
			out = append(out, domain.FailureRecord{
				RunID:   r.RunID,
				Vlad:    r.Name,
				Source:  r.Source,
				Scope:   scope,
				Column:  f.Column,
				Line:    f.Line,
				Message: msg,
			})
		}
	}
	for _, f := range r.RowFailures {
		add(domain.FailureScopeRow, f)
	}
	for _, f := range r.FieldFailures {
		add(domain.FailureScopeField, f)
	}
	return out
}

func messages(errs []*validator.ValidationError) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// Name returns the vlad's name.
func (v *Vlad) Name() string { return v.name }

// Source returns the source being validated.
func (v *Vlad) Source() string { return v.source.String() }

// RunID identifies this run in logs and exports.
func (v *Vlad) RunID() uuid.UUID { return v.runID }

// Outcome is the terminal state of the run, empty before Validate.
func (v *Vlad) Outcome() domain.Outcome { return v.outcome }

// Validators returns the effective column rules, including defaults
// substituted for columns declared without rules.
func (v *Vlad) Validators() map[string][]validator.Validator { return v.validators }

// RowValidators returns the row rules.
func (v *Vlad) RowValidators() []validator.RowValidator { return v.rowValidators }

// Failures maps column to 0-based data line to the errors recorded there.
// The map belongs to the Vlad and must not be modified.
func (v *Vlad) Failures() map[string]map[int][]*validator.ValidationError { return v.failures }

// RowFailures maps 0-based data line to the row errors recorded there.
// The map belongs to the Vlad and must not be modified.
func (v *Vlad) RowFailures() map[int][]*validator.ValidationError { return v.rowFailures }

// InvalidLines returns the sorted 1-based line numbers with at least one failure.
func (v *Vlad) InvalidLines() []int {
	out := make([]int, 0, len(v.invalidLines))
	for line := range v.invalidLines {
		out = append(out, line)
	}
	sort.Ints(out)
	return out
}

// MissingValidators returns header columns that have no rules.
func (v *Vlad) MissingValidators() []string { return v.missingValidators }

// MissingFields returns configured columns absent from the header.
func (v *Vlad) MissingFields() []string { return v.missingFields }

// LineCount is the number of data rows processed.
func (v *Vlad) LineCount() int { return v.lineCount }

// TotalLines is the row count found by the threshold pre-scan, or 0.
func (v *Vlad) TotalLines() int { return v.totalLines }

// Breach returns the threshold breach that stopped the run, if any.
func (v *Vlad) Breach() *Breach { return v.breach }
