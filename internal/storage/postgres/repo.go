// Package postgres implements a Postgres sink using pgx v5. Rows go in via
// COPY, which is by far the fastest path for a single bulk write.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"cleanse/internal/storage"
	"cleanse/internal/table"
)

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return NewRepository(ctx, cfg)
	})
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool  *pgxpool.Pool
	table string
}

// NewRepository connects a pgx pool to cfg.DSN. cfg.Table may be schema
// qualified ("public.cleaned_movies").
func NewRepository(ctx context.Context, cfg storage.Config) (*Repository, error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("postgres: pgxpool: %w", err)
	}
	return &Repository{pool: pool, table: cfg.Table}, nil
}

// CreateTable creates the destination table if it does not exist.
func (r *Repository) CreateTable(ctx context.Context, cols []storage.ColumnDef) error {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = fmt.Sprintf("%s %s", pgIdent(c.Name), sqlType(c.Kind))
	}
	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", pgFQN(r.table), strings.Join(defs, ", "))
	if _, err := r.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	return nil
}

// InsertRows bulk-loads all rows with COPY.
func (r *Repository) InsertRows(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("postgres: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	ident := pgx.Identifier(strings.Split(r.table, "."))
	n, err := r.pool.CopyFrom(ctx, ident, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return n, fmt.Errorf("postgres: copy: %w", err)
	}
	return n, nil
}

// Close releases the pool.
func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func sqlType(k table.Kind) string {
	switch k {
	case table.Codes:
		return "BIGINT"
	case table.Numeric:
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// pgIdent quotes a single identifier.
func pgIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// pgFQN quotes a possibly schema-qualified name part by part.
func pgFQN(name string) string {
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = pgIdent(p)
	}
	return strings.Join(parts, ".")
}
