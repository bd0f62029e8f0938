// Package segments holds the per-industry configuration table: which modules
// and navigation a tenant sees and its default category taxonomy.
package segments

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"entrepreedge/internal/core"
)

// DefaultKey is used when no segment is selected.
const DefaultKey = "generic"

var ErrUnknownSegment = errors.New("unknown segment")

//go:embed segments.yaml
var segmentsYAML []byte

// NavItem is one navigation entry.
type NavItem struct {
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
}

// Segment is the configuration of one business vertical.
type Segment struct {
	Key               string    `yaml:"key" json:"key"`
	Name              string    `yaml:"name" json:"name"`
	Modules           []string  `yaml:"modules" json:"modules"`
	Navigation        []NavItem `yaml:"navigation" json:"navigation"`
	IncomeCategories  []string  `yaml:"income_categories" json:"incomeCategories"`
	ExpenseCategories []string  `yaml:"expense_categories" json:"expenseCategories"`
}

// Categories returns the default taxonomy for txType.
func (s Segment) Categories(txType core.TransactionType) []string {
	if txType == core.Income {
		return slices.Clone(s.IncomeCategories)
	}
	return slices.Clone(s.ExpenseCategories)
}

// HasModule reports whether the segment enables module.
func (s Segment) HasModule(module string) bool {
	return slices.Contains(s.Modules, module)
}

// Table is a parsed segment configuration, kept in file order.
type Table struct {
	order []string
	byKey map[string]Segment
}

type file struct {
	Segments []Segment `yaml:"segments"`
}

// Parse decodes a segment table. Keys must be unique and non-empty and every
// segment needs at least one category of each type.
func Parse(data []byte) (*Table, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse segments: %w", err)
	}

	t := &Table{byKey: make(map[string]Segment, len(f.Segments))}
	for i, s := range f.Segments {
		switch {
		case s.Key == "":
			return nil, fmt.Errorf("segment %d: empty key", i)
		case s.Name == "":
			return nil, fmt.Errorf("segment %q: empty name", s.Key)
		case len(s.IncomeCategories) == 0 || len(s.ExpenseCategories) == 0:
			return nil, fmt.Errorf("segment %q: income and expense categories are required", s.Key)
		}
		if _, dup := t.byKey[s.Key]; dup {
			return nil, fmt.Errorf("segment %q: duplicate key", s.Key)
		}
		t.byKey[s.Key] = s
		t.order = append(t.order, s.Key)
	}
	return t, nil
}

// Lookup returns the segment for key.
func (t *Table) Lookup(key string) (Segment, error) {
	s, ok := t.byKey[key]
	if !ok {
		return Segment{}, fmt.Errorf("%w: %q", ErrUnknownSegment, key)
	}
	return s, nil
}

// Keys returns the segment keys in declaration order.
func (t *Table) Keys() []string {
	return slices.Clone(t.order)
}

// All returns every segment in declaration order.
func (t *Table) All() []Segment {
	out := make([]Segment, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, t.byKey[k])
	}
	return out
}

var builtin = mustParse(segmentsYAML)

func mustParse(data []byte) *Table {
	t, err := Parse(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Builtin returns the table embedded in the binary.
func Builtin() *Table { return builtin }

// Lookup finds key in the built-in table.
func Lookup(key string) (Segment, error) { return builtin.Lookup(key) }

// Keys lists the built-in segment keys.
func Keys() []string { return builtin.Keys() }
