// Package storage contains the storage-agnostic sink contract for the
// cleaned table, plus a small factory registry so the pipeline can stay
// backend-agnostic. Concrete sinks (CSV file, SQLite, Postgres, MySQL,
// MSSQL) live in subpackages and register themselves at init time; the
// storage/all package wires them all in via blank imports.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"cleanse/internal/table"
)

// ColumnDef describes one destination column: its name and the table kind it
// holds. Each backend maps the kind onto its own type system (TEXT/REAL/
// BIGINT or the CSV header, which ignores kinds entirely).
type ColumnDef struct {
	Name string
	Kind table.Kind
}

// Config selects and configures a sink.
type Config struct {
	// Kind selects the sink implementation: "csvfile", "sqlite", "postgres",
	// "mysql", or "mssql".
	Kind string

	// Path is the destination path for the "csvfile" sink.
	Path string

	// DSN is the connection string for database sinks.
	DSN string

	// Table is the destination table name for database sinks.
	Table string
}

// Repository is the minimal sink interface. CreateTable prepares the
// destination (header row or DDL), InsertRows appends data rows aligned to
// the given column order, and Close finalizes the sink. For sinks with
// commit-on-close semantics (csvfile), Close is what makes the output appear.
type Repository interface {
	CreateTable(ctx context.Context, cols []ColumnDef) error
	InsertRows(ctx context.Context, columns []string, rows [][]any) (int64, error)
	Close() error
}

// Factory builds a Repository from a Config.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs a factory under the given kind. Re-registering a kind
// overrides the previous factory (useful in tests).
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New constructs the Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns a sorted snapshot of the registered sink kinds.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// WriteTable streams an entire table into the sink: DDL first, then rows in
// order. Missing cells become nil, text cells string, numeric cells float64,
// and label codes int64.
func WriteTable(ctx context.Context, repo Repository, t *table.Table) (int64, error) {
	cols := t.Cols()
	defs := make([]ColumnDef, len(cols))
	names := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = ColumnDef{Name: c.Name, Kind: c.Kind}
		names[i] = c.Name
	}
	if err := repo.CreateTable(ctx, defs); err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	n := t.NumRows()
	rows := make([][]any, n)
	for i := 0; i < n; i++ {
		row := make([]any, len(cols))
		for j, c := range cols {
			switch {
			case c.IsNull(i):
				row[j] = nil
			case c.Kind == table.Text:
				row[j] = c.String(i)
			case c.Kind == table.Codes:
				row[j] = int64(c.Float(i))
			default:
				row[j] = c.Float(i)
			}
		}
		rows[i] = row
	}
	written, err := repo.InsertRows(ctx, names, rows)
	if err != nil {
		return written, fmt.Errorf("insert rows: %w", err)
	}
	return written, nil
}
