// Package table implements the columnar value passed between pipeline stages.
//
// A Table is an ordered sequence of named columns whose cells are aligned by
// row index. Each column carries one of three runtime kinds:
//
//   - Text:    raw string cells, as read from the source
//   - Numeric: float64 cells, produced by coercion or derivation
//   - Codes:   integer label codes, produced by the categorical encoder
//
// Every column additionally carries a per-cell missing mask. Stages never
// mutate a Table they received; they build a new Table (or new columns) and
// hand ownership downstream.
package table

import (
	"fmt"
	"strconv"
)

// Kind is the runtime representation of a column.
type Kind int

const (
	// Text columns hold raw string cells.
	Text Kind = iota
	// Numeric columns hold float64 cells.
	Numeric
	// Codes columns hold integer label codes. They are numeric for storage
	// purposes but are excluded from scaling; the encoder is the only stage
	// that produces them, so Kind doubles as provenance.
	Codes
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Numeric:
		return "numeric"
	case Codes:
		return "codes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Column is a single named column. Exactly one of the cell slices is active,
// selected by Kind; the missing mask is always aligned to the row count.
type Column struct {
	Name string
	Kind Kind

	text []string
	nums []float64
	null []bool
}

// NewText builds a Text column. A nil null mask means no cell is missing.
func NewText(name string, cells []string, null []bool) *Column {
	return &Column{Name: name, Kind: Text, text: cells, null: mask(null, len(cells))}
}

// NewNumeric builds a Numeric column. A nil null mask means no cell is missing.
func NewNumeric(name string, cells []float64, null []bool) *Column {
	return &Column{Name: name, Kind: Numeric, nums: cells, null: mask(null, len(cells))}
}

// NewCodes builds a Codes column holding integer label codes. Codes columns
// have no missing cells; the encoder runs after imputation.
func NewCodes(name string, codes []int) *Column {
	nums := make([]float64, len(codes))
	for i, c := range codes {
		nums[i] = float64(c)
	}
	return &Column{Name: name, Kind: Codes, nums: nums, null: make([]bool, len(codes))}
}

func mask(null []bool, n int) []bool {
	if null == nil {
		return make([]bool, n)
	}
	return null
}

// Len returns the number of rows in the column.
func (c *Column) Len() int { return len(c.null) }

// IsNull reports whether the cell at row i is missing.
func (c *Column) IsNull(i int) bool { return c.null[i] }

// Nulls returns the number of missing cells.
func (c *Column) Nulls() int {
	n := 0
	for _, m := range c.null {
		if m {
			n++
		}
	}
	return n
}

// String returns the text cell at row i. Valid only for Text columns.
func (c *Column) String(i int) string { return c.text[i] }

// Float returns the numeric cell at row i. Valid for Numeric and Codes columns.
func (c *Column) Float(i int) float64 { return c.nums[i] }

// IsNumeric reports whether the column currently holds numbers (Numeric or Codes).
func (c *Column) IsNumeric() bool { return c.Kind == Numeric || c.Kind == Codes }

// Format renders the cell at row i for serialization. Missing cells render as
// the empty string; Codes render without a fractional part.
func (c *Column) Format(i int) string {
	if c.null[i] {
		return ""
	}
	switch c.Kind {
	case Text:
		return c.text[i]
	case Codes:
		return strconv.FormatInt(int64(c.nums[i]), 10)
	default:
		return strconv.FormatFloat(c.nums[i], 'g', -1, 64)
	}
}

// Renamed returns a shallow copy of the column under a new name, sharing the
// underlying cells.
func (c *Column) Renamed(name string) *Column {
	cp := *c
	cp.Name = name
	return &cp
}

// filter returns a copy of the column containing only rows where keep is true.
func (c *Column) filter(keep []bool, n int) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind, null: make([]bool, 0, n)}
	if c.text != nil {
		out.text = make([]string, 0, n)
	}
	if c.nums != nil {
		out.nums = make([]float64, 0, n)
	}
	for i, k := range keep {
		if !k {
			continue
		}
		out.null = append(out.null, c.null[i])
		if c.text != nil {
			out.text = append(out.text, c.text[i])
		}
		if c.nums != nil {
			out.nums = append(out.nums, c.nums[i])
		}
	}
	return out
}

// Table is an ordered collection of equal-length columns.
type Table struct {
	cols  []*Column
	index map[string]int
}

// New builds a Table from the given columns in order. It fails when column
// names collide or row counts disagree.
func New(cols ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := t.Append(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the row count (0 for a table with no columns).
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return t.cols[0].Len()
}

// NumCols returns the column count.
func (t *Table) NumCols() int { return len(t.cols) }

// Names returns the column names in table order.
func (t *Table) Names() []string {
	out := make([]string, len(t.cols))
	for i, c := range t.cols {
		out[i] = c.Name
	}
	return out
}

// Cols returns the columns in table order. Callers must not mutate the slice.
func (t *Table) Cols() []*Column { return t.cols }

// Col looks a column up by name.
func (t *Table) Col(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i], true
}

// Append adds a column at the end of the table.
func (t *Table) Append(c *Column) error {
	if _, dup := t.index[c.Name]; dup {
		return fmt.Errorf("table: duplicate column %q", c.Name)
	}
	if len(t.cols) > 0 && c.Len() != t.NumRows() {
		return fmt.Errorf("table: column %q has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
	}
	t.index[c.Name] = len(t.cols)
	t.cols = append(t.cols, c)
	return nil
}

// Replace swaps the column with the same name for the given one, keeping its
// position. The replacement must have the table's row count.
func (t *Table) Replace(c *Column) error {
	i, ok := t.index[c.Name]
	if !ok {
		return fmt.Errorf("table: no column %q to replace", c.Name)
	}
	if c.Len() != t.NumRows() {
		return fmt.Errorf("table: column %q has %d rows, table has %d", c.Name, c.Len(), t.NumRows())
	}
	t.cols[i] = c
	return nil
}

// Filter returns a new Table containing only rows where keep is true,
// preserving row order. len(keep) must equal NumRows.
func (t *Table) Filter(keep []bool) (*Table, error) {
	if len(keep) != t.NumRows() {
		return nil, fmt.Errorf("table: keep mask has %d entries, table has %d rows", len(keep), t.NumRows())
	}
	n := 0
	for _, k := range keep {
		if k {
			n++
		}
	}
	out := &Table{index: make(map[string]int, len(t.cols))}
	for _, c := range t.cols {
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.filter(keep, n))
	}
	return out, nil
}

// Select returns a new Table holding the named columns in the given order,
// sharing the underlying column values.
func (t *Table) Select(names []string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names))}
	for _, name := range names {
		c, ok := t.Col(name)
		if !ok {
			return nil, fmt.Errorf("table: no column %q", name)
		}
		if err := out.Append(c); err != nil {
			return nil, err
		}
	}
	return out, nil
}
