package stage

import (
	"context"
	"regexp"
	"strconv"

	"cleanse/internal/schema"
	"cleanse/internal/table"
)

var (
	yearRun      = regexp.MustCompile(`\d{4}`)
	parenYearRun = regexp.MustCompile(`\((\d{4})`)
)

// ExtractYear derives a numeric year column from the year-like column,
// falling back to a parenthesized year in the title column for rows the
// primary extraction misses.
//
// The fallback is aligned by row index: each still-missing row consults its
// own title cell, so a sparse fallback can never shift values between rows.
// Rows where both extractions fail keep a gap in the derived column; later
// stages tolerate that. When the year column is absent the stage is a no-op.
type ExtractYear struct {
	Spec schema.YearSpec
}

func (ExtractYear) Name() string { return "extract_year" }

func (e ExtractYear) Apply(_ context.Context, t *table.Table) (*table.Table, error) {
	yearCol, ok := t.Col(e.Spec.Column)
	if !ok {
		return t, nil
	}

	n := t.NumRows()
	nums := make([]float64, n)
	null := make([]bool, n)
	for i := 0; i < n; i++ {
		v, found := firstYear(yearCol, i)
		if !found {
			null[i] = true
			continue
		}
		nums[i] = v
	}

	if fallback, ok := t.Col(e.Spec.Fallback); ok {
		for i := 0; i < n; i++ {
			if !null[i] {
				continue
			}
			if v, found := parenYear(fallback, i); found {
				nums[i] = v
				null[i] = false
			}
		}
	}

	out, err := t.Select(t.Names())
	if err != nil {
		return nil, err
	}
	if err := out.Append(table.NewNumeric(e.Spec.Derived, nums, null)); err != nil {
		return nil, err
	}
	return out, nil
}

// firstYear extracts the first 4-digit run from the cell's text.
func firstYear(c *table.Column, i int) (float64, bool) {
	if c.IsNull(i) {
		return 0, false
	}
	return parseYear(yearRun.FindString(cellText(c, i)))
}

// parenYear extracts a 4-digit run immediately following an opening
// parenthesis, e.g. "Movie X (2016)" -> 2016.
func parenYear(c *table.Column, i int) (float64, bool) {
	if c.IsNull(i) {
		return 0, false
	}
	m := parenYearRun.FindStringSubmatch(cellText(c, i))
	if m == nil {
		return 0, false
	}
	return parseYear(m[1])
}

func parseYear(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cellText renders any cell kind as text for regexp matching.
func cellText(c *table.Column, i int) string {
	if c.Kind == table.Text {
		return c.String(i)
	}
	return c.Format(i)
}
