// Package csvfile implements the default sink: a delimited file with a
// header row, in the same format the loader reads.
//
// The sink writes to a temporary file in the destination directory and
// renames it into place on Close, so an aborted run never leaves a partial
// output file behind.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"cleanse/internal/storage"
	"cleanse/internal/table"
)

func init() {
	storage.Register("csvfile", func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(cfg)
	})
}

// Repository writes the cleaned table to a CSV file.
type Repository struct {
	path  string
	tmp   *os.File
	w     *csv.Writer
	kinds map[string]table.Kind
	bad   bool // a write failed; Close must not install the output
}

// NewRepository prepares a CSV sink for the configured path. Nothing touches
// the filesystem until CreateTable.
func NewRepository(cfg storage.Config) (*Repository, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("csvfile: path must not be empty")
	}
	return &Repository{path: cfg.Path}, nil
}

// CreateTable opens the temporary file and writes the header row.
func (r *Repository) CreateTable(_ context.Context, cols []storage.ColumnDef) error {
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("csvfile: create temp: %w", err)
	}
	r.tmp = tmp
	r.w = csv.NewWriter(tmp)
	r.kinds = make(map[string]table.Kind, len(cols))

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
		r.kinds[c.Name] = c.Kind
	}
	if err := r.w.Write(header); err != nil {
		r.bad = true
		return fmt.Errorf("csvfile: write header: %w", err)
	}
	return nil
}

// InsertRows appends data rows. Cells are rendered as the loader would read
// them back: nil as empty, codes without a fractional part.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if r.w == nil {
		return 0, fmt.Errorf("csvfile: InsertRows before CreateTable")
	}
	var written int64
	rec := make([]string, len(columns))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			r.bad = true
			return written, err
		}
		if len(row) != len(columns) {
			r.bad = true
			return written, fmt.Errorf("csvfile: row width %d, want %d", len(row), len(columns))
		}
		for i, v := range row {
			rec[i] = formatCell(v)
		}
		if err := r.w.Write(rec); err != nil {
			r.bad = true
			return written, fmt.Errorf("csvfile: write row: %w", err)
		}
		written++
	}
	return written, nil
}

// Close flushes and installs the output file, or discards the temp file when
// a write failed earlier.
func (r *Repository) Close() error {
	if r.tmp == nil {
		return nil
	}
	name := r.tmp.Name()
	r.w.Flush()
	flushErr := r.w.Error()
	closeErr := r.tmp.Close()
	r.tmp = nil

	if r.bad || flushErr != nil || closeErr != nil {
		os.Remove(name)
		if flushErr != nil {
			return fmt.Errorf("csvfile: flush: %w", flushErr)
		}
		if closeErr != nil {
			return fmt.Errorf("csvfile: close temp: %w", closeErr)
		}
		return nil
	}
	if err := os.Rename(name, r.path); err != nil {
		os.Remove(name)
		return fmt.Errorf("csvfile: install output: %w", err)
	}
	return nil
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
