// Package schema describes which record fields the viewer shows and how.
//
// The listing columns and detail sections are data, not code: the built-in
// layout is embedded from layout.yaml and can be replaced at startup with a
// file of the same shape (VIEW_LAYOUT_FILE).
package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/JonMunkholm/fmcsa/internal/core"
)

//go:embed layout.yaml
var defaultLayout []byte

// Column is one listing column.
type Column struct {
	Key     string `yaml:"key"`
	Label   string `yaml:"label"`
	Numeric bool   `yaml:"numeric"` // right-aligned
}

// Field is one labelled value on the detail page. Fallback is shown when the
// record's value is empty; with no fallback an empty value renders as "".
type Field struct {
	Key      string `yaml:"key"`
	Label    string `yaml:"label"`
	Fallback string `yaml:"fallback"`
}

// Section is a titled group of detail fields.
type Section struct {
	Title  string  `yaml:"title"`
	Fields []Field `yaml:"fields"`
}

// Layout is the full presentation schema.
type Layout struct {
	Title    string    `yaml:"title"`
	Columns  []Column  `yaml:"columns"`
	Sections []Section `yaml:"sections"`
}

var builtin = mustParse(defaultLayout)

// Default returns the embedded layout. Callers must not modify it.
func Default() *Layout {
	return builtin
}

// Parse decodes and validates a YAML layout.
func Parse(data []byte) (*Layout, error) {
	var l Layout
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads a layout from path. An empty path returns Default.
func LoadFile(path string) (*Layout, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return Parse(data)
}

// Validate checks that every column and field names a key and that column
// keys are unique.
func (l *Layout) Validate() error {
	var errs []error

	if len(l.Columns) == 0 {
		errs = append(errs, errors.New("layout: no columns"))
	}
	seen := make(map[string]bool, len(l.Columns))
	for i, c := range l.Columns {
		switch {
		case c.Key == "":
			errs = append(errs, fmt.Errorf("layout: column %d has no key", i))
		case seen[c.Key]:
			errs = append(errs, fmt.Errorf("layout: duplicate column %q", c.Key))
		}
		seen[c.Key] = true
	}

	for i, s := range l.Sections {
		if s.Title == "" {
			errs = append(errs, fmt.Errorf("layout: section %d has no title", i))
		}
		for j, f := range s.Fields {
			if f.Key == "" {
				errs = append(errs, fmt.Errorf("layout: section %q field %d has no key", s.Title, j))
			}
		}
	}

	return errors.Join(errs...)
}

// Column returns the listing column with the given key.
func (l *Layout) Column(key string) (Column, bool) {
	for _, c := range l.Columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// IsColumn reports whether key is a listing column. Only listing columns
// are sortable.
func (l *Layout) IsColumn(key string) bool {
	_, ok := l.Column(key)
	return ok
}

// ColumnKeys returns the listing column keys in display order.
func (l *Layout) ColumnKeys() []string {
	keys := make([]string, len(l.Columns))
	for i, c := range l.Columns {
		keys[i] = c.Key
	}
	return keys
}

// RequiredFields is the set of headers a dataset must carry: the id plus
// every listing column. Detail-only fields may be absent.
func (l *Layout) RequiredFields() []string {
	return append([]string{core.FieldID}, l.ColumnKeys()...)
}

func mustParse(data []byte) *Layout {
	l, err := Parse(data)
	if err != nil {
		panic(fmt.Sprintf("embedded layout: %v", err))
	}
	return l
}
