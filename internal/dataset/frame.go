package dataset

import (
	"fmt"
	"math"
	"sort"
)

// Kind classifies a column as numeric or categorical.
type Kind int

const (
	KindNumeric Kind = iota
	KindCategorical
)

func (k Kind) String() string {
	switch k {
	case KindNumeric:
		return "numeric"
	case KindCategorical:
		return "categorical"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column holds one named column. Numeric columns store values in Floats
// (missing cells are NaN); categorical columns store raw labels in Labels.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Labels []string
}

func (c Column) len() int {
	if c.Kind == KindNumeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Levels returns the distinct labels of a categorical column in first-seen order.
func (c Column) Levels() []string {
	if c.Kind != KindCategorical {
		return nil
	}
	seen := make(map[string]bool, len(c.Labels))
	var levels []string
	for _, l := range c.Labels {
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	return levels
}

// Distinct returns the number of distinct non-missing values in the column.
func (c Column) Distinct() int {
	if c.Kind == KindCategorical {
		return len(c.Levels())
	}
	seen := make(map[float64]bool, len(c.Floats))
	for _, v := range c.Floats {
		if !math.IsNaN(v) {
			seen[v] = true
		}
	}
	return len(seen)
}

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	cols   []Column
	byName map[string]int
	rows   int
}

// New builds a Frame from columns, validating equal lengths and unique names.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{byName: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.add(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Frame) add(c Column) error {
	if c.Name == "" {
		return fmt.Errorf("column name cannot be empty")
	}
	if _, ok := f.byName[c.Name]; ok {
		return fmt.Errorf("duplicate column %q", c.Name)
	}
	if len(f.cols) == 0 {
		f.rows = c.len()
	} else if c.len() != f.rows {
		return fmt.Errorf("column %q has %d rows, frame has %d", c.Name, c.len(), f.rows)
	}
	f.byName[c.Name] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// AddColumn appends a column, enforcing the frame's row count.
func (f *Frame) AddColumn(c Column) error { return f.add(c) }

func (f *Frame) Rows() int { return f.rows }

func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name
	}
	return names
}

// Has reports whether the frame contains the named column.
func (f *Frame) Has(name string) bool {
	_, ok := f.byName[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, error) {
	idx, ok := f.byName[name]
	if !ok {
		return Column{}, fmt.Errorf("column %q not found (have %v)", name, f.Names())
	}
	return f.cols[idx], nil
}

// Columns returns all columns in frame order.
func (f *Frame) Columns() []Column {
	out := make([]Column, len(f.cols))
	copy(out, f.cols)
	return out
}

// Select returns a new frame containing only the named columns, in the
// given order. Unknown names are an error.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := &Frame{byName: make(map[string]int, len(names))}
	for _, name := range names {
		c, err := f.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.add(cloneColumn(c)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Drop returns a new frame without the named columns. Unknown names are
// an error so that typos do not silently keep a column in play.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		if !f.Has(name) {
			return nil, fmt.Errorf("cannot drop unknown column %q", name)
		}
		drop[name] = true
	}
	out := &Frame{byName: make(map[string]int)}
	for _, c := range f.cols {
		if drop[c.Name] {
			continue
		}
		if err := out.add(cloneColumn(c)); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	out := &Frame{byName: make(map[string]int, len(f.cols))}
	for _, c := range f.cols {
		_ = out.add(cloneColumn(c))
	}
	return out
}

func cloneColumn(c Column) Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	return out
}

// CategoricalNames returns the names of all categorical columns, sorted.
func (f *Frame) CategoricalNames() []string {
	var names []string
	for _, c := range f.cols {
		if c.Kind == KindCategorical {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names
}
