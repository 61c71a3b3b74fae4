package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cleanse/internal/config"
	"cleanse/internal/storage"
	_ "cleanse/internal/storage/csvfile"
)

// moviesCSV is a small input exercising every stage: a duplicate row, a
// thousands separator, a missing VOTES cell, parenthesized years, and one
// rating far enough from the rest to fail the fence.
const moviesCSV = `MOVIES,YEAR,GENRE,RATING,VOTES
Dune,(2021),Sci-Fi,8.0,"1,000"
Dune,(2021),Sci-Fi,8.0,"1,000"
Arrival,(2016),Sci-Fi,7.9,900
Up,(2009),Animation,8.2,1100
Her,(2013),Drama,8.0,
`

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func csvFileSpec(in, out string) config.Pipeline {
	p := config.Default()
	p.Source.File.Path = in
	p.Storage.Path = out
	return p
}

func TestRun_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, moviesCSV)
	out := filepath.Join(dir, "cleaned.csv")

	sum, err := Run(context.Background(), csvFileSpec(in, out))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if sum.RowsLoaded != 5 {
		t.Fatalf("loaded = %d, want 5", sum.RowsLoaded)
	}
	if sum.DuplicatesRemoved != 1 {
		t.Fatalf("duplicates_removed = %d, want 1", sum.DuplicatesRemoved)
	}
	if sum.OutliersRemoved != 1 {
		t.Fatalf("outliers_removed = %d, want 1", sum.OutliersRemoved)
	}
	if sum.RowsWritten != 3 {
		t.Fatalf("written = %d, want 3", sum.RowsWritten)
	}

	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("output lines = %d, want header + 3 rows:\n%s", len(lines), b)
	}
	if got, want := lines[0], "MOVIES,YEAR,GENRE,RATING,VOTES,YEAR_CLEANED"; got != want {
		t.Fatalf("header = %q, want %q", got, want)
	}
	// The outlier row is the one that should be gone.
	if strings.Contains(string(b), "Up") {
		t.Fatalf("outlier row survived:\n%s", b)
	}
}

func TestRun_SourceNotFound(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cleaned.csv")
	spec := csvFileSpec(filepath.Join(dir, "no_such.csv"), out)

	_, err := Run(context.Background(), spec)
	if !errors.Is(err, ErrSourceNotFound) {
		t.Fatalf("err = %v, want ErrSourceNotFound", err)
	}
	if _, serr := os.Stat(out); !errors.Is(serr, os.ErrNotExist) {
		t.Fatalf("aborted run must not create output, stat = %v", serr)
	}
}

func TestRun_UnsupportedSourceKind(t *testing.T) {
	spec := config.Default()
	spec.Source.Kind = "s3"

	_, err := Run(context.Background(), spec)
	if err == nil || !strings.Contains(err.Error(), "unsupported source.kind=s3") {
		t.Fatalf("err = %v, want unsupported source.kind", err)
	}
}

func TestRun_UnsupportedParserKind(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, moviesCSV)

	spec := csvFileSpec(in, filepath.Join(dir, "cleaned.csv"))
	spec.Parser.Kind = "parquet"

	_, err := Run(context.Background(), spec)
	if err == nil || !strings.Contains(err.Error(), "unsupported parser.kind=parquet") {
		t.Fatalf("err = %v, want unsupported parser.kind", err)
	}
}

func TestRun_StorageInitFailureAborts(t *testing.T) {
	orig := newRepositoryFn
	defer func() { newRepositoryFn = orig }()

	boom := errors.New("boom")
	newRepositoryFn = func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return nil, boom
	}

	dir := t.TempDir()
	in := writeInput(t, dir, moviesCSV)

	_, err := Run(context.Background(), csvFileSpec(in, filepath.Join(dir, "cleaned.csv")))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
}

func TestRun_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, moviesCSV)
	out := filepath.Join(dir, "cleaned.csv")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, csvFileSpec(in, out))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, serr := os.Stat(out); !errors.Is(serr, os.ErrNotExist) {
		t.Fatalf("canceled run must not create output, stat = %v", serr)
	}
}
