package stage

import (
	"context"
	"reflect"
	"testing"

	"cleanse/internal/table"
)

func TestCanonicalName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in, want string
	}{
		{"  MOVIES  ", "MOVIES"},
		{"ONE-LINE", "ONE_LINE"},
		{"RunTime", "RUNTIME"},
		{"Gross", "GROSS"},
		{"box office ($)", "BOX_OFFICE_"},
		{"_id", "_ID"},
		{"Año", "ANO"},
		{"a  b", "A__B"},
		{"***", ""},
		{"YEAR_CLEANED", "YEAR_CLEANED"},
	}
	for _, tc := range cases {
		if got := CanonicalName(tc.in); got != tc.want {
			t.Fatalf("CanonicalName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCanonicalNameIdempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"ONE-LINE", " stars ", "Gross", "Revenue (US$)"} {
		once := CanonicalName(in)
		if twice := CanonicalName(once); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestNormalizeColumnsRenamesAndDropsDead(t *testing.T) {
	t.Parallel()

	tbl, err := table.New(
		table.NewText("MOVIES ", []string{"a", "b"}, nil),
		table.NewText("ONE-LINE", []string{"x", "y"}, nil),
		table.NewText("empty", []string{"", ""}, []bool{true, true}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := NormalizeColumns{}.Apply(context.Background(), tbl)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if names := got.Names(); !reflect.DeepEqual(names, []string{"MOVIES", "ONE_LINE"}) {
		t.Fatalf("Names = %v", names)
	}
	if got.NumRows() != 2 {
		t.Fatalf("rows changed: %d", got.NumRows())
	}
}
