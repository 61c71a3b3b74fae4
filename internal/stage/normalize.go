package stage

import (
	"context"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"cleanse/internal/table"
)

// NormalizeColumns canonicalizes column names and drops dead columns.
//
// A name is trimmed, accent-folded to ASCII, upper-cased; spaces and hyphens
// become underscores and anything outside [A-Z0-9_] is stripped. Underscores
// survive at the edges, so "box office ($)" becomes "BOX_OFFICE_" and "_id"
// stays "_ID". Columns whose every cell is missing are removed entirely.
// Rows are never touched.
type NormalizeColumns struct{}

func (NormalizeColumns) Name() string { return "normalize_columns" }

func (NormalizeColumns) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	out := make([]*table.Column, 0, t.NumCols())
	for _, c := range t.Cols() {
		if c.Len() > 0 && c.Nulls() == c.Len() {
			continue // dead column: nothing but gaps
		}
		out = append(out, c.Renamed(CanonicalName(c.Name)))
	}
	return table.New(out...)
}

// foldAccents decomposes, removes nonspacing marks, and recomposes, turning
// accented letters into their ASCII base (é -> e).
var foldAccents = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// CanonicalName returns the canonical form of a column name. It is
// idempotent: CanonicalName(CanonicalName(s)) == CanonicalName(s).
func CanonicalName(s string) string {
	s = strings.TrimSpace(s)
	ascii, _, err := transform.String(foldAccents, s)
	if err == nil {
		s = ascii
	}
	s = strings.ToUpper(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('_')
		default:
			// anything else is stripped
		}
	}
	return b.String()
}
