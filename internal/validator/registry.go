package validator

import (
	"fmt"
	"sort"

	"vladiate/internal/domain"
)

// Args carries the rule parameters a vladfile may set. Each rule reads only
// the fields it understands.
type Args struct {
	EmptyOK         bool
	Values          []string
	CaseInsensitive bool
	UniqueWith      []string
	Pattern         string
	Full            bool
	Low             *float64
	High            *float64
}

// Factory builds a fresh column rule.
type Factory func(Args) (Validator, error)

// RowFactory builds a fresh row rule.
type RowFactory func(Args) (RowValidator, error)

// Registry maps rule keys to factories.
type Registry struct {
	validators    map[string]Factory
	rowValidators map[string]RowFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		validators:    make(map[string]Factory),
		rowValidators: make(map[string]RowFactory),
	}
}

// DefaultRegistry returns a Registry holding every built-in rule.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RuleFloat, func(a Args) (Validator, error) { return NewFloatValidator(a.EmptyOK), nil })
	r.Register(RuleInt, func(a Args) (Validator, error) { return NewIntValidator(a.EmptyOK), nil })
	r.Register(RuleSet, func(a Args) (Validator, error) {
		var opts []SetOption
		if a.EmptyOK {
			opts = append(opts, WithEmptyOK())
		}
		if a.CaseInsensitive {
			opts = append(opts, WithCaseInsensitive())
		}
		return NewSetValidator(a.Values, opts...), nil
	})
	r.Register(RuleUnique, func(a Args) (Validator, error) {
		return NewUniqueValidator(a.UniqueWith, a.EmptyOK), nil
	})
	r.Register(RuleRegex, func(a Args) (Validator, error) {
		v, err := NewRegexValidator(a.Pattern, a.Full, a.EmptyOK)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRuleConfig, err)
		}
		return v, nil
	})
	r.Register(RuleRange, func(a Args) (Validator, error) {
		if a.Low == nil || a.High == nil {
			return nil, fmt.Errorf("%w: range needs both low and high", domain.ErrInvalidRuleConfig)
		}
		if *a.Low > *a.High {
			return nil, fmt.Errorf("%w: range low %v is above high %v", domain.ErrInvalidRuleConfig, *a.Low, *a.High)
		}
		return NewRangeValidator(*a.Low, *a.High, a.EmptyOK), nil
	})
	r.Register(RuleEmpty, func(Args) (Validator, error) { return NewEmptyValidator(), nil })
	r.Register(RuleNotEmpty, func(Args) (Validator, error) { return NewNotEmptyValidator(), nil })
	r.Register(RuleIgnore, func(Args) (Validator, error) { return NewIgnore(), nil })
	r.RegisterRow(RuleRowLength, func(Args) (RowValidator, error) { return NewRowLengthValidator(), nil })
	return r
}

// Register adds a column rule factory under key.
func (r *Registry) Register(key string, f Factory) {
	r.validators[key] = f
}

// RegisterRow adds a row rule factory under key.
func (r *Registry) RegisterRow(key string, f RowFactory) {
	r.rowValidators[key] = f
}

// Build constructs the column rule registered under key.
func (r *Registry) Build(key string, args Args) (Validator, error) {
	f, ok := r.validators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRule, key)
	}
	return f(args)
}

// BuildRow constructs the row rule registered under key.
func (r *Registry) BuildRow(key string, args Args) (RowValidator, error) {
	f, ok := r.rowValidators[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownRule, key)
	}
	return f(args)
}

// Keys returns the registered column rule keys, sorted.
func (r *Registry) Keys() []string {
	return sortedKeys(r.validators)
}

// RowKeys returns the registered row rule keys, sorted.
func (r *Registry) RowKeys() []string {
	return sortedKeys(r.rowValidators)
}

func sortedKeys[T any](m map[string]T) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
