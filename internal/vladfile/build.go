package vladfile

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"vladiate/internal/csvrow"
	"vladiate/internal/domain"
	"vladiate/internal/port"
	"vladiate/internal/source"
	"vladiate/internal/validator"
	"vladiate/internal/vlad"
)

// Deps are the collaborators a Definition needs to become a Vlad.
type Deps struct {
	Registry *validator.Registry
	// Storage backs s3 sources. It may be nil when no vlad reads from S3.
	Storage port.ObjectStorage
	// Delimiter applies to vlads that do not set their own.
	Delimiter rune
	Reporter  vlad.Reporter
	Logger    *zap.Logger
}

// Build creates a new Vlad from the definition. Every call yields fresh
// rule instances, so the results of separate calls can run concurrently.
func (d *Definition) Build(deps Deps) (*vlad.Vlad, error) {
	reg := deps.Registry
	if reg == nil {
		reg = validator.DefaultRegistry()
	}

	delimiter := deps.Delimiter
	if d.Delimiter != "" {
		delimiter = []rune(d.Delimiter)[0]
	}
	if delimiter == 0 {
		delimiter = csvrow.DefaultDelimiter
	}

	src, err := d.buildSource(deps.Storage, delimiter)
	if err != nil {
		return nil, fmt.Errorf("vlad %q: %w", d.Name, err)
	}

	validators := make(map[string][]validator.Validator, len(d.Validators))
	for _, col := range d.Validators {
		rules := make([]validator.Validator, 0, len(col.Rules))
		for _, rs := range col.Rules {
			v, err := reg.Build(rs.Rule, rs.args())
			if err != nil {
				return nil, fmt.Errorf("vlad %q, column %q: %w", d.Name, col.Name, err)
			}
			rules = append(rules, v)
		}
		validators[col.Name] = rules
	}

	rowValidators := make([]validator.RowValidator, 0, len(d.RowValidators))
	for _, rs := range d.RowValidators {
		rv, err := reg.BuildRow(rs.Rule, rs.args())
		if err != nil {
			return nil, fmt.Errorf("vlad %q, row rule: %w", d.Name, err)
		}
		rowValidators = append(rowValidators, rv)
	}

	var newDefault func() validator.Validator
	if key := d.DefaultValidator; key != "" {
		if _, err := reg.Build(key, validator.Args{}); err != nil {
			return nil, fmt.Errorf("vlad %q, default validator: %w", d.Name, err)
		}
		newDefault = func() validator.Validator {
			v, _ := reg.Build(key, validator.Args{})
			return v
		}
	}

	return vlad.New(src, vlad.Options{
		Name:                    d.Name,
		Validators:              validators,
		RowValidators:           rowValidators,
		DefaultValidator:        newDefault,
		Delimiter:               delimiter,
		Fieldnames:              d.Fieldnames,
		IgnoreMissingValidators: d.IgnoreMissingValidators,
		FailureThreshold:        d.FailureThreshold,
		Reporter:                deps.Reporter,
		Logger:                  deps.Logger,
	})
}

func (d *Definition) buildSource(storage port.ObjectStorage, delimiter rune) (port.Source, error) {
	switch d.Source.Type {
	case domain.SourceTypeLocal:
		return source.NewLocalFile(d.resolve(d.Source.Path)), nil
	case domain.SourceTypeString:
		return source.NewString(d.Source.Content), nil
	case domain.SourceTypeS3:
		return source.NewS3File(storage, d.Source.Path, d.Source.Bucket, d.Source.Key)
	case domain.SourceTypeXLSX:
		return source.NewXLSXFile(d.resolve(d.Source.Path), d.Source.Sheet, delimiter), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, d.Source.Type)
	}
}

// resolve makes relative paths relative to the vladfile's directory.
func (d *Definition) resolve(path string) string {
	if d.baseDir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.baseDir, path)
}

func (r RuleSpec) args() validator.Args {
	return validator.Args{
		EmptyOK:         r.EmptyOK,
		Values:          r.Values,
		CaseInsensitive: r.CaseInsensitive,
		UniqueWith:      r.UniqueWith,
		Pattern:         r.Pattern,
		Full:            r.Full,
		Low:             r.Low,
		High:            r.High,
	}
}
