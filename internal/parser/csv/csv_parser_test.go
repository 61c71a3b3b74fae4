package csv

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseBasic(t *testing.T) {
	t.Parallel()

	in := "MOVIES,RATING\nBlue Beetle,6.0\nDune,8.1\n"
	tbl, skipped, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if got := tbl.Names(); !reflect.DeepEqual(got, []string{"MOVIES", "RATING"}) {
		t.Fatalf("Names = %v", got)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
	c, _ := tbl.Col("RATING")
	if c.String(1) != "8.1" {
		t.Fatalf("cell = %q", c.String(1))
	}
}

func TestParseMarksEmptyCellsMissing(t *testing.T) {
	t.Parallel()

	in := "A,B\n1,\n,2\n"
	tbl, _, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, _ := tbl.Col("A")
	b, _ := tbl.Col("B")
	if a.IsNull(0) || !a.IsNull(1) {
		t.Fatalf("A null mask wrong")
	}
	if !b.IsNull(0) || b.IsNull(1) {
		t.Fatalf("B null mask wrong")
	}
}

func TestParseWhitespaceCellIsNotMissing(t *testing.T) {
	t.Parallel()

	// Without TrimSpace, a whitespace-only cell is a present (if useless) value;
	// coercion downstream turns it into a gap.
	in := "A\n  \n"
	tbl, _, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a, _ := tbl.Col("A")
	if a.IsNull(0) {
		t.Fatalf("whitespace cell should not be missing at parse time")
	}
	if a.String(0) != "  " {
		t.Fatalf("cell = %q", a.String(0))
	}
}

func TestParseSkipsRaggedRows(t *testing.T) {
	t.Parallel()

	in := "A,B\n1,2\nonly-one\n3,4\n"
	tbl, skipped, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if tbl.NumRows() != 2 {
		t.Fatalf("rows = %d, want 2", tbl.NumRows())
	}
}

func TestParseStripsHeaderBOM(t *testing.T) {
	t.Parallel()

	in := "\uFEFFA,B\n1,2\n"
	tbl, _, err := NewParser(Options{}).Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if _, ok := tbl.Col("A"); !ok {
		t.Fatalf("BOM not stripped from first header cell: %v", tbl.Names())
	}
}

func TestParseEmptyInput(t *testing.T) {
	t.Parallel()

	if _, _, err := NewParser(Options{}).Parse(strings.NewReader("")); err == nil {
		t.Fatalf("expected error for empty input")
	}
}
