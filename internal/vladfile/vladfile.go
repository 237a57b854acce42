// Package vladfile loads vlad definitions from YAML.
//
// A vladfile looks like:
//
//	vlads:
//	  Vampires:
//	    source: {type: local, path: vampires.csv}
//	    validators:
//	      Name: [{rule: unique}]
//	      Status: [{rule: set, values: [Vampire, Not A Vampire]}]
//	    row_validators: [{rule: row_length}]
package vladfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	playground "github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"vladiate/internal/domain"
)

var validate = playground.New()

// File is a parsed vladfile.
type File struct {
	Path  string                 `yaml:"-"`
	Vlads map[string]*Definition `yaml:"vlads" validate:"dive,required"`
}

// Definition describes one vlad.
type Definition struct {
	Name                    string     `yaml:"-"`
	Source                  SourceSpec `yaml:"source"`
	Delimiter               string     `yaml:"delimiter" validate:"omitempty,len=1"`
	Fieldnames              []string   `yaml:"fieldnames" validate:"dive,required"`
	IgnoreMissingValidators bool       `yaml:"ignore_missing_validators"`
	FailureThreshold        float64    `yaml:"failure_threshold" validate:"omitempty,gt=0,lte=1"`
	DefaultValidator        string     `yaml:"default_validator"`
	Validators              Columns    `yaml:"validators" validate:"dive"`
	RowValidators           []RuleSpec `yaml:"row_validators" validate:"dive"`

	baseDir string
}

// SourceSpec says where a vlad reads from. Path is a file path for local and
// xlsx sources and an s3://bucket/key URL for s3 sources, which may instead
// give Bucket and Key.
type SourceSpec struct {
	Type    domain.SourceType `yaml:"type" validate:"required,oneof=local string s3 xlsx"`
	Path    string            `yaml:"path" validate:"required_if=Type local,required_if=Type xlsx"`
	Content string            `yaml:"content"`
	Bucket  string            `yaml:"bucket"`
	Key     string            `yaml:"key"`
	Sheet   string            `yaml:"sheet"`
}

// RuleSpec names a rule and its arguments.
type RuleSpec struct {
	Rule            string   `yaml:"rule" validate:"required"`
	EmptyOK         bool     `yaml:"empty_ok"`
	Values          []string `yaml:"values"`
	CaseInsensitive bool     `yaml:"case_insensitive"`
	UniqueWith      []string `yaml:"unique_with"`
	Pattern         string   `yaml:"pattern"`
	Full            bool     `yaml:"full"`
	Low             *float64 `yaml:"low"`
	High            *float64 `yaml:"high"`
}

// Column is one entry of the validators mapping.
type Column struct {
	Name  string
	Rules []RuleSpec `validate:"dive"`
}

// Columns keeps the validators mapping in document order.
type Columns []Column

// UnmarshalYAML decodes a mapping of column name to rule list. A column with
// a null value has no rules and gets the default rule.
func (c *Columns) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: validators must be a mapping of column to rules", node.Line)
	}

	seen := make(map[string]bool, len(node.Content)/2)
	cols := make(Columns, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]

		var name string
		if err := keyNode.Decode(&name); err != nil {
			return fmt.Errorf("line %d: column name: %w", keyNode.Line, err)
		}
		if seen[name] {
			return fmt.Errorf("line %d: column %q listed twice", keyNode.Line, name)
		}
		seen[name] = true

		var rules []RuleSpec
		if err := valNode.Decode(&rules); err != nil {
			return fmt.Errorf("line %d: rules for column %q: %w", valNode.Line, name, err)
		}
		cols = append(cols, Column{Name: name, Rules: rules})
	}
	*c = cols
	return nil
}

// Load reads and validates the vladfile at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNoVladfile, path)
		}
		return nil, fmt.Errorf("reading vladfile: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving vladfile directory: %w", err)
	}
	for _, def := range f.Vlads {
		def.baseDir = abs
	}
	return f, nil
}

// Parse decodes and validates vladfile content. Relative source paths in
// the result are taken as is.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing vladfile: %w", err)
	}
	if len(f.Vlads) == 0 {
		return nil, domain.ErrNoVlads
	}
	for name, def := range f.Vlads {
		if def == nil {
			return nil, fmt.Errorf("vlad %q: empty definition", name)
		}
		def.Name = name
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid vladfile: %w", err)
	}
	return &f, nil
}

// Names returns the vlad names, sorted.
func (f *File) Names() []string {
	names := make([]string, 0, len(f.Vlads))
	for name := range f.Vlads {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Uses reports whether any vlad reads from a source of type t.
func (f *File) Uses(t domain.SourceType) bool {
	for _, def := range f.Vlads {
		if def.Source.Type == t {
			return true
		}
	}
	return false
}
