package stage

import (
	"context"
	"sort"

	"cleanse/internal/table"
)

// Encode maps every non-numeric column (except the identifier column) to
// integer label codes.
//
// Codes are assigned by lexicographically sorting the column's distinct
// values, so the assignment is a deterministic function of the value set. A
// column with fewer than two distinct values carries no information and is
// dropped instead of encoded. Encoded columns get the Codes kind, which is
// what the scaler later uses to exclude them.
type Encode struct {
	// Identifier names the column that is never encoded.
	Identifier string
}

func (Encode) Name() string { return "encode_categorical" }

func (e Encode) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	out := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Cols() {
		if c.IsNumeric() || c.Name == e.Identifier {
			out = append(out, c)
			continue
		}
		col, drop := labelEncode(c)
		if drop {
			continue
		}
		out = append(out, col)
	}
	return table.New(out...)
}

// labelEncode builds a Codes column, or reports drop=true for a column with
// fewer than two distinct observed values. Missing cells do not count toward
// the distinct threshold; a column like [A, missing, A] carries no
// information and is dropped. In a surviving column, missing cells encode as
// the empty string.
func labelEncode(c *table.Column) (col *table.Column, drop bool) {
	n := c.Len()
	distinct := make(map[string]int, n)
	vals := make([]string, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			continue
		}
		v := c.String(i)
		vals[i] = v
		distinct[v] = 0
	}
	if len(distinct) < 2 {
		return nil, true
	}
	if c.Nulls() > 0 {
		distinct[""] = 0
	}

	sorted := make([]string, 0, len(distinct))
	for v := range distinct {
		sorted = append(sorted, v)
	}
	sort.Strings(sorted)
	for code, v := range sorted {
		distinct[v] = code
	}

	codes := make([]int, n)
	for i, v := range vals {
		codes[i] = distinct[v]
	}
	return table.NewCodes(c.Name, codes), false
}
