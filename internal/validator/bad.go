package validator

import (
	"strconv"
	"strings"

	"vladiate/internal/csvrow"
)

// BadKind tags which collection a Bad carries.
type BadKind int

const (
	// BadNone carries no information (Ignore).
	BadNone BadKind = iota
	// BadValues is a set of offending field values.
	BadValues
	// BadKeys is a set of offending composite keys.
	BadKeys
	// BadFlag only records that a failure happened.
	BadFlag
	// BadRows is a list of offending row snapshots.
	BadRows
)

// Bad describes what a rule found wrong. Only one of the collections is
// populated, as selected by Kind. Set-valued collections keep first-seen order.
type Bad struct {
	Kind   BadKind
	Values []string
	Keys   [][]string
	Flag   bool
	Rows   []csvrow.Row
}

// Any reports whether the rule recorded anything at all.
func (b Bad) Any() bool {
	switch b.Kind {
	case BadValues:
		return len(b.Values) > 0
	case BadKeys:
		return len(b.Keys) > 0
	case BadFlag:
		return b.Flag
	case BadRows:
		return len(b.Rows) > 0
	default:
		return false
	}
}

// Iterable reports whether Items lists individual offenders.
func (b Bad) Iterable() bool {
	return b.Kind == BadValues || b.Kind == BadKeys || b.Kind == BadRows
}

// Items renders each offender as a string. Non-iterable kinds return nil.
func (b Bad) Items() []string {
	switch b.Kind {
	case BadValues:
		return append([]string(nil), b.Values...)
	case BadKeys:
		out := make([]string, 0, len(b.Keys))
		for _, k := range b.Keys {
			out = append(out, formatKey(k))
		}
		return out
	case BadRows:
		out := make([]string, 0, len(b.Rows))
		for _, r := range b.Rows {
			out = append(out, r.String())
		}
		return out
	default:
		return nil
	}
}

func formatKey(key []string) string {
	if len(key) == 1 {
		return key[0]
	}
	quoted := make([]string, len(key))
	for i, k := range key {
		quoted[i] = strconv.Quote(k)
	}
	return "(" + strings.Join(quoted, ", ") + ")"
}

// valueSet is an insertion-ordered string set.
type valueSet struct {
	seen  map[string]struct{}
	order []string
}

func (s *valueSet) add(v string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return false
	}
	s.seen[v] = struct{}{}
	s.order = append(s.order, v)
	return true
}

func (s *valueSet) has(v string) bool {
	_, ok := s.seen[v]
	return ok
}

func (s *valueSet) values() []string {
	return append([]string(nil), s.order...)
}

func (s *valueSet) bad() Bad {
	return Bad{Kind: BadValues, Values: s.values()}
}

// keySet is an insertion-ordered set of composite keys.
type keySet struct {
	seen  map[string]struct{}
	order [][]string
}

func (s *keySet) add(key []string) bool {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	id := keyID(key)
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, key)
	return true
}

func (s *keySet) has(key []string) bool {
	_, ok := s.seen[keyID(key)]
	return ok
}

func keyID(key []string) string {
	var b strings.Builder
	for _, k := range key {
		b.WriteString(strconv.Quote(k))
		b.WriteByte(',')
	}
	return b.String()
}
