// Package stage contains the ordered cleaning stages of the pipeline.
//
// Each stage consumes a whole table and produces a new whole table; the Chain
// runs them in order. The order is load-bearing: outlier detection must see
// imputed, deduplicated data, and scaling must run after encoding so that
// label-code columns can be excluded. Callers build the canonical chain with
// Default and must not reorder it.
package stage

import (
	"context"
	"time"

	"cleanse/internal/schema"
	"cleanse/internal/table"
)

// Stage transforms a table into a new table.
type Stage interface {
	Name() string
	Apply(ctx context.Context, t *table.Table) (*table.Table, error)
}

// Result records what a single stage did to the table's shape.
type Result struct {
	Stage   string
	RowsIn  int
	RowsOut int
	ColsIn  int
	ColsOut int
	Elapsed time.Duration
}

// RowsRemoved returns how many rows the stage dropped.
func (r Result) RowsRemoved() int { return r.RowsIn - r.RowsOut }

// Chain is an ordered list of stages.
type Chain []Stage

// Apply runs every stage in order, threading the table through. It returns
// the final table and a per-stage shape report. The first stage error aborts
// the run.
func (c Chain) Apply(ctx context.Context, t *table.Table) (*table.Table, []Result, error) {
	results := make([]Result, 0, len(c))
	for _, s := range c {
		if s == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}
		res := Result{Stage: s.Name(), RowsIn: t.NumRows(), ColsIn: t.NumCols()}
		start := time.Now()
		out, err := s.Apply(ctx, t)
		if err != nil {
			return nil, results, err
		}
		res.Elapsed = time.Since(start)
		res.RowsOut = out.NumRows()
		res.ColsOut = out.NumCols()
		results = append(results, res)
		t = out
	}
	return t, results, nil
}

// Default builds the canonical cleaning chain for the given role table.
func Default(roles schema.Roles) Chain {
	return Chain{
		NormalizeColumns{},
		HandleMissing{Roles: roles},
		ExtractYear{Spec: roles.Year},
		DeDup{},
		FilterOutliers{},
		Encode{Identifier: roles.Identifier},
		Scale{},
	}
}
