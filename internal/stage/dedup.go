package stage

import (
	"context"

	"github.com/zeebo/xxh3"

	"cleanse/internal/table"
)

// DeDup removes rows that are exact duplicates of an earlier row across all
// columns, keeping the first occurrence. Row identity is a 128-bit xxh3
// digest over every cell, with kind tags and separators so that missing,
// empty, and numeric cells never collide.
type DeDup struct{}

func (DeDup) Name() string { return "dedup" }

func (DeDup) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	n := t.NumRows()
	keep := make([]bool, n)
	seen := make(map[xxh3.Uint128]struct{}, n)
	cols := t.Cols()

	for i := 0; i < n; i++ {
		h := xxh3.New()
		for _, c := range cols {
			if c.IsNull(i) {
				h.WriteString("\x00")
			} else {
				h.WriteString("\x01")
				h.WriteString(c.Format(i))
			}
			h.WriteString("\x1f")
		}
		sum := h.Sum128()
		if _, dup := seen[sum]; dup {
			continue
		}
		seen[sum] = struct{}{}
		keep[i] = true
	}
	return t.Filter(keep)
}
