package stage

import (
	"context"
	"testing"

	"cleanse/internal/schema"
	"cleanse/internal/table"
)

func applyYear(t *testing.T, tbl *table.Table) *table.Table {
	t.Helper()
	out, err := ExtractYear{Spec: schema.Default().Year}.Apply(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	return out
}

func TestYearPrimaryExtraction(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(
		table.NewText("MOVIES", []string{"Movie X (2016)"}, nil),
		table.NewText("YEAR", []string{"(2015)"}, nil),
	)
	out := applyYear(t, tbl)

	y, ok := out.Col("YEAR_CLEANED")
	if !ok {
		t.Fatalf("derived column missing")
	}
	if y.IsNull(0) || y.Float(0) != 2015 {
		t.Fatalf("YEAR_CLEANED = %v (null=%v), want 2015", y.Float(0), y.IsNull(0))
	}
}

func TestYearFallbackFromTitle(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(
		table.NewText("MOVIES", []string{"Movie X (2016)", "Movie Y (2018– )", "No year at all"}, nil),
		table.NewText("YEAR", []string{"N/A", "Unknown", "Unknown"}, nil),
	)
	out := applyYear(t, tbl)

	y, _ := out.Col("YEAR_CLEANED")
	if y.IsNull(0) || y.Float(0) != 2016 {
		t.Fatalf("row 0 fallback = %v (null=%v), want 2016", y.Float(0), y.IsNull(0))
	}
	if y.IsNull(1) || y.Float(1) != 2018 {
		t.Fatalf("row 1 fallback = %v (null=%v), want 2018", y.Float(1), y.IsNull(1))
	}
	if !y.IsNull(2) {
		t.Fatalf("row 2 should stay missing, got %v", y.Float(2))
	}
}

func TestYearFallbackAlignsByRow(t *testing.T) {
	t.Parallel()

	// Only rows 0 and 2 miss a primary year; row 2's title has no year. The
	// fallback must land in row 0 only, never shift into row 1 or 2.
	tbl, _ := table.New(
		table.NewText("MOVIES", []string{"A (1999)", "B (2000)", "C"}, nil),
		table.NewText("YEAR", []string{"bad", "2005", "bad"}, nil),
	)
	out := applyYear(t, tbl)

	y, _ := out.Col("YEAR_CLEANED")
	if y.Float(0) != 1999 {
		t.Fatalf("row 0 = %v, want 1999", y.Float(0))
	}
	if y.Float(1) != 2005 {
		t.Fatalf("row 1 = %v, want primary 2005", y.Float(1))
	}
	if !y.IsNull(2) {
		t.Fatalf("row 2 should be missing")
	}
}

func TestYearNoopWithoutYearColumn(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(table.NewText("MOVIES", []string{"A (1999)"}, nil))
	out := applyYear(t, tbl)
	if _, ok := out.Col("YEAR_CLEANED"); ok {
		t.Fatalf("derived column added without a year column")
	}
}

func TestYearFirstRunWins(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(
		table.NewText("MOVIES", []string{"x"}, nil),
		table.NewText("YEAR", []string{"2011-2013"}, nil),
	)
	out := applyYear(t, tbl)
	y, _ := out.Col("YEAR_CLEANED")
	if y.Float(0) != 2011 {
		t.Fatalf("got %v, want first run 2011", y.Float(0))
	}
}
