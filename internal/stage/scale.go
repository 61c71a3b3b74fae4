package stage

import (
	"context"

	"cleanse/internal/stats"
	"cleanse/internal/table"
)

// Scale standardizes every Numeric column to zero mean and unit variance.
//
// Codes columns are excluded: the encoder marked them, and rescaling label
// codes would destroy their meaning. Mean and population standard deviation
// are computed over the observed values; a zero-variance column scales to
// uniform zeros rather than dividing by zero. Gaps (a derived year that never
// resolved) stay gaps.
type Scale struct{}

func (Scale) Name() string { return "scale_numeric" }

func (Scale) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	out := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Cols() {
		if c.Kind != table.Numeric {
			out = append(out, c)
			continue
		}
		out = append(out, standardize(c))
	}
	return table.New(out...)
}

func standardize(c *table.Column) *table.Column {
	n := c.Len()
	var observed []float64
	for i := 0; i < n; i++ {
		if !c.IsNull(i) {
			observed = append(observed, c.Float(i))
		}
	}

	mean := stats.Mean(observed)
	std := stats.Std(observed)

	nums := make([]float64, n)
	null := make([]bool, n)
	for i := 0; i < n; i++ {
		if c.IsNull(i) {
			null[i] = true
			continue
		}
		if std == 0 {
			nums[i] = 0
			continue
		}
		nums[i] = (c.Float(i) - mean) / std
	}
	return table.NewNumeric(c.Name, nums, null)
}
