// Package pipeline wires the cleaning run end-to-end: open the source, parse
// it into a raw table, run the stage chain, and write the cleaned table to the
// configured sink. It depends only on storage-agnostic interfaces and never
// imports database drivers or backend-specific packages directly.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cleanse/internal/config"
	"cleanse/internal/datasource"
	"cleanse/internal/datasource/file"
	"cleanse/internal/metrics"
	"cleanse/internal/parser"
	csvparser "cleanse/internal/parser/csv"
	"cleanse/internal/stage"
	"cleanse/internal/storage"
	"cleanse/internal/table"
)

// ErrSourceNotFound reports a missing input file. It is fatal: the run is
// aborted before any output is created.
var ErrSourceNotFound = errors.New("source not found")

// Summary holds the end-of-run statistics.
//
// Invariants for data rows (excluding the header) are:
//
//	loaded == rows that parsed into the raw table
//	loaded - duplicates_removed - outliers_removed == written
type Summary struct {
	Job string

	// RowsLoaded is the number of data rows parsed into the raw table.
	RowsLoaded int
	// RowsSkipped counts malformed rows the parser dropped.
	RowsSkipped int
	// DuplicatesRemoved and OutliersRemoved break down the rows the chain dropped.
	DuplicatesRemoved int
	OutliersRemoved   int
	// RowsWritten is the number of rows the sink accepted.
	RowsWritten int64

	// Columns is the final column list, in output order.
	Columns []string

	// Stages is the per-stage shape report, in execution order.
	Stages []stage.Result

	Elapsed time.Duration
}

// Function variables used to introduce test seams. In production these point
// to real implementations; tests can override them.
var (
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return storage.New(ctx, cfg)
	}

	openSourceFn = openSource
)

// Run executes the full cleaning pipeline described by spec.
//
// The run is strictly sequential: parse, then each stage in order, then write.
// Any error aborts the run before output is installed (the csvfile sink
// commits on Close, database sinks on transaction commit), so a failed run
// never leaves a partial destination behind.
func Run(ctx context.Context, spec config.Pipeline) (*Summary, error) {
	job := spec.Job
	if job == "" {
		job = "clean"
	}
	start := time.Now()

	src, err := openSourceFn(ctx, spec)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrSourceNotFound, err)
		}
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	p, err := buildParser(spec.Parser)
	if err != nil {
		return nil, err
	}

	raw, skipped, err := p.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	log.Printf("%s: loaded rows=%d cols=%d skipped_malformed=%d",
		job, raw.NumRows(), raw.NumCols(), skipped)
	metrics.RecordRows(job, "loaded", int64(raw.NumRows()))
	metrics.RecordRows(job, "skipped_malformed", int64(skipped))

	chain := stage.Default(spec.Columns.Roles())
	cleaned, results, err := chain.Apply(ctx, raw)
	for _, r := range results {
		metrics.RecordStage(job, r.Stage, nil, r.Elapsed)
		log.Printf("%s: stage=%s rows=%d->%d cols=%d->%d elapsed=%s",
			job, r.Stage, r.RowsIn, r.RowsOut, r.ColsIn, r.ColsOut,
			r.Elapsed.Truncate(time.Microsecond))
	}
	if err != nil {
		failed := "chain"
		if len(results) < len(chain) {
			failed = chain[len(results)].Name()
		}
		metrics.RecordStage(job, failed, err, time.Since(start))
		return nil, fmt.Errorf("stage %s: %w", failed, err)
	}

	sum := &Summary{
		Job:         job,
		RowsLoaded:  raw.NumRows(),
		RowsSkipped: skipped,
		Columns:     cleaned.Names(),
		Stages:      results,
	}
	for _, r := range results {
		switch r.Stage {
		case "dedup":
			sum.DuplicatesRemoved = r.RowsRemoved()
		case "filter_outliers":
			sum.OutliersRemoved = r.RowsRemoved()
		}
	}
	metrics.RecordRows(job, "duplicates_removed", int64(sum.DuplicatesRemoved))
	metrics.RecordRows(job, "outliers_removed", int64(sum.OutliersRemoved))

	if err := write(ctx, spec, cleaned, sum); err != nil {
		return nil, err
	}
	metrics.RecordRows(job, "written", sum.RowsWritten)

	sum.Elapsed = time.Since(start)
	log.Printf("%s: summary loaded=%d skipped=%d duplicates_removed=%d outliers_removed=%d written=%d elapsed=%s",
		job, sum.RowsLoaded, sum.RowsSkipped, sum.DuplicatesRemoved,
		sum.OutliersRemoved, sum.RowsWritten, sum.Elapsed.Truncate(time.Millisecond))
	log.Printf("%s: cleaned shape rows=%d cols=%d columns=%v",
		job, cleaned.NumRows(), cleaned.NumCols(), cleaned.Names())

	return sum, nil
}

// write streams the cleaned table into the configured sink. The sink's Close
// is what finalizes the output, so its error is part of the write.
func write(ctx context.Context, spec config.Pipeline, t *table.Table, sum *Summary) error {
	repo, err := newRepositoryFn(ctx, storage.Config{
		Kind:  spec.Storage.Kind,
		Path:  spec.Storage.Path,
		DSN:   spec.Storage.DB.DSN,
		Table: spec.Storage.DB.Table,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	n, werr := storage.WriteTable(ctx, repo, t)
	cerr := repo.Close()
	if werr != nil {
		return fmt.Errorf("write: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("finalize storage: %w", cerr)
	}
	sum.RowsWritten = n
	return nil
}

// openSource maps source configuration onto a concrete reader.
func openSource(ctx context.Context, spec config.Pipeline) (io.ReadCloser, error) {
	var src datasource.Source
	switch spec.Source.Kind {
	case "file":
		src = file.NewLocal(spec.Source.File.Path)
	default:
		return nil, fmt.Errorf("unsupported source.kind=%s", spec.Source.Kind)
	}
	return src.Open(ctx)
}

// buildParser maps parser configuration onto a concrete parser implementation.
func buildParser(p config.Parser) (parser.Parser, error) {
	switch p.Kind {
	case "csv":
		return csvparser.NewParser(csvparser.Options{
			Comma:      p.Options.Rune("comma", ','),
			TrimSpace:  p.Options.Bool("trim_space", false),
			LazyQuotes: p.Options.Bool("lazy_quotes", true),
		}), nil
	default:
		return nil, fmt.Errorf("unsupported parser.kind=%s", p.Kind)
	}
}
