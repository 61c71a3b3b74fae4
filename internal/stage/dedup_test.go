package stage

import (
	"context"
	"testing"

	"cleanse/internal/table"
)

func TestDeDupKeepsFirst(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(
		table.NewText("A", []string{"x", "x", "y", "x"}, nil),
		table.NewNumeric("B", []float64{1, 1, 2, 1}, nil),
	)
	out, err := DeDup{}.Apply(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", out.NumRows())
	}
	a, _ := out.Col("A")
	if a.String(0) != "x" || a.String(1) != "y" {
		t.Fatalf("order not preserved: %q, %q", a.String(0), a.String(1))
	}
}

func TestDeDupDistinguishesMissingFromEmpty(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(table.NewText("A", []string{"", ""}, []bool{true, false}))
	out, err := DeDup{}.Apply(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("missing and empty collided: rows = %d", out.NumRows())
	}
}

func TestDeDupNearDuplicatesSurvive(t *testing.T) {
	t.Parallel()

	tbl, _ := table.New(
		table.NewText("A", []string{"x", "x"}, nil),
		table.NewNumeric("B", []float64{1, 2}, nil),
	)
	out, err := DeDup{}.Apply(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if out.NumRows() != 2 {
		t.Fatalf("rows differing in one column were merged")
	}
}
