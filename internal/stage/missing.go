package stage

import (
	"context"
	"strconv"
	"strings"

	"cleanse/internal/schema"
	"cleanse/internal/stats"
	"cleanse/internal/table"
)

// HandleMissing coerces the recognized numeric columns to numbers and imputes
// every recognized column's gaps.
//
// Numeric columns: cells that fail coercion become gaps (a coercion gap is
// never an error), then every gap is filled with the column's median over its
// observed values. Columns flagged as thousands-separated have commas
// stripped before coercion. Categorical columns: gaps are filled with the
// sentinel; a column that is entirely missing becomes all-sentinel.
// Unrecognized columns pass through untouched.
type HandleMissing struct {
	Roles schema.Roles
}

func (HandleMissing) Name() string { return "handle_missing" }

func (h HandleMissing) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	out := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Cols() {
		role, ok := h.Roles.RoleOf(c.Name)
		if !ok || c.Kind != table.Text {
			out = append(out, c)
			continue
		}
		switch role {
		case schema.NumericCoerce:
			out = append(out, h.coerceAndImpute(c))
		default: // Identifier and CategoricalImpute columns both take the sentinel
			out = append(out, h.fillSentinel(c))
		}
	}
	return table.New(out...)
}

// coerceAndImpute turns a text column into a numeric one. Unparseable cells
// become gaps, and gaps are then filled with the median of the observed
// values. A column with no observed values at all imputes to zero.
func (h HandleMissing) coerceAndImpute(c *table.Column) *table.Column {
	n := c.Len()
	nums := make([]float64, n)
	null := make([]bool, n)
	var observed []float64

	stripCommas := h.Roles.HasThousands(c.Name)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			null[i] = true
			continue
		}
		s := strings.TrimSpace(c.String(i))
		if stripCommas {
			s = strings.ReplaceAll(s, ",", "")
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			null[i] = true // coercion gap
			continue
		}
		nums[i] = v
		observed = append(observed, v)
	}

	med := stats.Median(observed) // 0 when nothing was observed
	for i := 0; i < n; i++ {
		if null[i] {
			nums[i] = med
			null[i] = false
		}
	}
	return table.NewNumeric(c.Name, nums, null)
}

// fillSentinel replaces every gap in a text column with the sentinel label.
func (h HandleMissing) fillSentinel(c *table.Column) *table.Column {
	sentinel := h.Roles.SentinelValue()
	n := c.Len()
	cells := make([]string, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			cells[i] = sentinel
		} else {
			cells[i] = c.String(i)
		}
	}
	return table.NewText(c.Name, cells, nil)
}
