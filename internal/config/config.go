// Package config defines the canonical, JSON-serializable configuration model
// for the cleaning pipeline. It is intentionally small, explicit, and
// dependency-free so that pipeline files can be loaded from disk and passed
// through the program without additional glue code.
//
// Field names in Go mirror the JSON structure used in pipeline files under
// configs/pipelines/*.json. Decoding uses the standard library only, with a
// light Options helper for typed access to parser settings.
//
// Example (trimmed):
//
//	{
//	  "job":     "clean_movies",
//	  "source":  { "kind": "file", "file": { "path": "movies.csv" } },
//	  "parser":  { "kind": "csv", "options": { "lazy_quotes": true } },
//	  "columns": { "identifier": "MOVIES", "numeric": ["RATING"] },
//	  "storage": { "kind": "csvfile", "path": "cleaned_movies_data.csv" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"cleanse/internal/schema"
)

// Pipeline describes a full cleaning run in JSON. It is the top-level object
// decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source describes where input data comes from (e.g., local file).
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into a raw table.
	Parser Parser `json:"parser"`

	// Columns overrides the column-role table. Empty fields keep the
	// movie-dataset defaults.
	Columns Columns `json:"columns"`

	// Storage describes where the cleaned table is written.
	Storage Storage `json:"storage"`
}

// Source identifies the data source. Additional kinds can be added over time.
type Source struct {
	// Kind selects the source implementation. Current value: "file".
	Kind string `json:"kind"`

	// File carries options for the "file" source kind.
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`
}

// Parser selects how to parse the raw source into a table.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the parser implementation.
	// For CSV, recognized keys: comma (string), trim_space (bool),
	// lazy_quotes (bool).
	Options Options `json:"options"`
}

// Columns mirrors schema.Roles in JSON. All names are canonical
// (upper-case, underscored) since the role table is consulted after column
// normalization.
type Columns struct {
	Identifier  string   `json:"identifier"`
	Numeric     []string `json:"numeric"`
	Thousands   []string `json:"thousands"`
	Categorical []string `json:"categorical"`
	Year        Year     `json:"year"`
	Sentinel    string   `json:"sentinel"`
}

// Year configures derived-year extraction.
type Year struct {
	Column   string `json:"column"`
	Fallback string `json:"fallback"`
	Derived  string `json:"derived"`
}

// Roles converts the Columns block into a schema.Roles table, filling any
// empty field from the movie-dataset defaults.
func (c Columns) Roles() schema.Roles {
	r := schema.Default()
	if c.Identifier != "" {
		r.Identifier = c.Identifier
	}
	if len(c.Numeric) > 0 {
		r.Numeric = c.Numeric
	}
	if len(c.Thousands) > 0 {
		r.Thousands = c.Thousands
	}
	if len(c.Categorical) > 0 {
		r.Categorical = c.Categorical
	}
	if c.Year.Column != "" {
		r.Year.Column = c.Year.Column
	}
	if c.Year.Fallback != "" {
		r.Year.Fallback = c.Year.Fallback
	}
	if c.Year.Derived != "" {
		r.Year.Derived = c.Year.Derived
	}
	if c.Sentinel != "" {
		r.Sentinel = c.Sentinel
	}
	return r
}

// Storage selects the sink used to persist the cleaned table.
type Storage struct {
	// Kind selects the storage implementation: "csvfile", "sqlite",
	// "postgres", "mysql", or "mssql".
	Kind string `json:"kind"`

	// Path is the destination path for the "csvfile" sink.
	Path string `json:"path"`

	// DB carries options for the database sinks.
	DB DBConfig `json:"db"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the backend-specific connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name (e.g., "public.cleaned_movies").
	Table string `json:"table"`
}

// Default returns the pipeline for the movie dataset: movies.csv in, a CSV
// file next to it out, default column roles.
func Default() Pipeline {
	return Pipeline{
		Job:    "clean_movies",
		Source: Source{Kind: "file", File: SourceFile{Path: "movies.csv"}},
		Parser: Parser{Kind: "csv", Options: Options{"lazy_quotes": true}},
		Storage: Storage{
			Kind: "csvfile",
			Path: "cleaned_movies_data.csv",
		},
	}
}

// Load reads and decodes a pipeline file. Parser.Options is always non-nil
// afterwards, even when the file omits the options object entirely.
func Load(path string) (Pipeline, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("read config: %w", err)
	}
	var p Pipeline
	if err := json.Unmarshal(b, &p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return p, nil
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns the provided default when a key is absent
// or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty. Useful for single-character parser settings such as the
// CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// UnmarshalJSON implements json.Unmarshaler so that a null "options" value
// decodes to a non-nil, empty Options map. An absent key never reaches the
// unmarshaler; Load covers that case. Typed accessors are nil-safe either
// way, so call sites never need to nil-check.
func (o *Options) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	var tmp map[string]any
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
