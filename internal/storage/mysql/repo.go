// Package mysql implements a MySQL/MariaDB sink using database/sql and the
// go-sql-driver. Rows are written with multi-row INSERT statements, batched
// to stay under the server's packet limit.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver

	"cleanse/internal/storage"
	"cleanse/internal/table"
)

// insertBatch caps the number of rows per multi-row INSERT.
const insertBatch = 500

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db    *sql.DB
	table string
}

// NewRepository opens a MySQL connection from cfg.DSN, e.g.
// "user:pass@tcp(localhost:3306)/dbname".
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("mysql: DSN must not be empty")
	}
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("mysql: table must not be empty")
	}

	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("mysql: open: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql: ping: %w", err)
	}
	return &Repository{db: db, table: cfg.Table}, nil
}

// CreateTable creates the destination table if it does not exist.
func (r *Repository) CreateTable(ctx context.Context, cols []storage.ColumnDef) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", quote(c.Name), sqlType(c.Kind))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quote(r.table), strings.Join(defs, ", "))
	if _, err := r.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("mysql: create table: %w", err)
	}
	return nil
}

// InsertRows writes rows in multi-row INSERT batches inside one transaction.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("mysql: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mysql: begin tx: %w", err)
	}

	single := "(" + strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ") + ")"
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quote(r.table), quoteJoin(columns))

	var inserted int64
	for start := 0; start < len(rows); start += insertBatch {
		end := start + insertBatch
		if end > len(rows) {
			end = len(rows)
		}
		batch := rows[start:end]

		values := make([]string, len(batch))
		args := make([]any, 0, len(batch)*len(columns))
		for i, row := range batch {
			if len(row) != len(columns) {
				_ = tx.Rollback()
				return 0, fmt.Errorf("mysql: row width %d, want %d", len(row), len(columns))
			}
			values[i] = single
			args = append(args, row...)
		}
		if _, err := tx.ExecContext(ctx, prefix+strings.Join(values, ", "), args...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("mysql: insert batch: %w", err)
		}
		inserted += int64(len(batch))
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mysql: commit: %w", err)
	}
	return inserted, nil
}

// Close releases the database handle.
func (r *Repository) Close() error { return r.db.Close() }

func sqlType(k table.Kind) string {
	switch k {
	case table.Codes:
		return "BIGINT"
	case table.Numeric:
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

func quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func quoteJoin(idents []string) string {
	out := make([]string, len(idents))
	for i, s := range idents {
		out[i] = quote(s)
	}
	return strings.Join(out, ", ")
}
