package stage

import (
	"context"

	"cleanse/internal/stats"
	"cleanse/internal/table"
)

// iqrFenceFactor is the classic Tukey multiplier for the IQR fence.
const iqrFenceFactor = 1.5

// FilterOutliers removes rows falling outside the IQR fence on any numeric
// column.
//
// Quartiles are computed per column over the pre-filter rows (observed values
// only); the fence is [Q1 - 1.5*IQR, Q3 + 1.5*IQR]. The mask is conjunctive:
// a row survives only if every fenced column accepts it. A column with zero
// IQR imposes no constraint at all; without that guard a constant column
// would wipe the table. A missing value cannot lie within a fence, so rows
// with gaps in a fenced column are removed.
type FilterOutliers struct{}

func (FilterOutliers) Name() string { return "filter_outliers" }

func (FilterOutliers) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	n := t.NumRows()
	keep := make([]bool, n)
	for i := range keep {
		keep[i] = true
	}

	for _, c := range t.Cols() {
		if !c.IsNumeric() {
			continue
		}
		var observed []float64
		for i := 0; i < n; i++ {
			if !c.IsNull(i) {
				observed = append(observed, c.Float(i))
			}
		}
		if len(observed) == 0 {
			continue
		}
		q1 := stats.Quantile(observed, 0.25)
		q3 := stats.Quantile(observed, 0.75)
		iqr := q3 - q1
		if iqr <= 0 {
			continue // no spread, no constraint
		}
		lo := q1 - iqrFenceFactor*iqr
		hi := q3 + iqrFenceFactor*iqr
		for i := 0; i < n; i++ {
			if c.IsNull(i) || c.Float(i) < lo || c.Float(i) > hi {
				keep[i] = false
			}
		}
	}
	return t.Filter(keep)
}
