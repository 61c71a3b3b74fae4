// Package schema defines the column-role lookup used by the cleaning stages.
//
// A stage only acts on a column when the column is present in the table and
// the role table recognizes its (canonicalized) name; anything else passes
// through untouched. The default role table describes the movie dataset but
// pipelines may override it from configuration.
package schema

// Role classifies how the pipeline treats a recognized column.
type Role int

const (
	// Identifier columns are retained verbatim: never coerced, encoded, or scaled.
	Identifier Role = iota
	// NumericCoerce columns are coerced to numbers and median-imputed.
	NumericCoerce
	// CategoricalImpute columns receive the sentinel for missing cells.
	CategoricalImpute
)

// YearSpec names the columns involved in derived-year extraction.
type YearSpec struct {
	// Column is the year-like source column (post-normalization name).
	Column string
	// Fallback is the identifier/title column scanned for "(YYYY" when the
	// primary extraction fails.
	Fallback string
	// Derived is the name of the numeric column the extractor adds.
	Derived string
}

// Roles is the column-capability table. All names are post-normalization
// (upper-case, underscored) since every stage after the column normalizer
// sees canonical names only.
type Roles struct {
	// Identifier is the title column, retained unencoded.
	Identifier string
	// Numeric lists the columns coerced to numbers and median-imputed.
	Numeric []string
	// Thousands lists the numeric columns whose text uses comma thousands
	// separators, stripped before coercion.
	Thousands []string
	// Categorical lists the text columns imputed with the sentinel.
	Categorical []string
	// Year configures derived-year extraction.
	Year YearSpec
	// Sentinel replaces missing categorical cells. Empty means "Unknown".
	Sentinel string
}

// Default returns the role table for the movie dataset.
func Default() Roles {
	return Roles{
		Identifier:  "MOVIES",
		Numeric:     []string{"RATING", "VOTES", "RUNTIME", "GROSS"},
		Thousands:   []string{"VOTES"},
		Categorical: []string{"MOVIES", "YEAR", "GENRE", "ONE_LINE", "STARS"},
		Year:        YearSpec{Column: "YEAR", Fallback: "MOVIES", Derived: "YEAR_CLEANED"},
		Sentinel:    "Unknown",
	}
}

// RoleOf reports the role for a column name, if recognized.
func (r Roles) RoleOf(name string) (Role, bool) {
	if name == r.Identifier {
		return Identifier, true
	}
	for _, n := range r.Numeric {
		if n == name {
			return NumericCoerce, true
		}
	}
	for _, n := range r.Categorical {
		if n == name {
			return CategoricalImpute, true
		}
	}
	return 0, false
}

// HasThousands reports whether the named column uses comma thousands separators.
func (r Roles) HasThousands(name string) bool {
	for _, n := range r.Thousands {
		if n == name {
			return true
		}
	}
	return false
}

// SentinelValue returns the configured sentinel, defaulting to "Unknown".
func (r Roles) SentinelValue() string {
	if r.Sentinel == "" {
		return "Unknown"
	}
	return r.Sentinel
}
