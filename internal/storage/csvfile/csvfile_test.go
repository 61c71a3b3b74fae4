package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cleanse/internal/storage"
	"cleanse/internal/table"
)

func defs() []storage.ColumnDef {
	return []storage.ColumnDef{
		{Name: "MOVIES", Kind: table.Text},
		{Name: "RATING", Kind: table.Numeric},
		{Name: "GENRE", Kind: table.Codes},
	}
}

func TestWriteAndInstall(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	repo, err := NewRepository(storage.Config{Path: path})
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}

	ctx := context.Background()
	if err := repo.CreateTable(ctx, defs()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	n, err := repo.InsertRows(ctx, []string{"MOVIES", "RATING", "GENRE"}, [][]any{
		{"Dune", -0.5, int64(2)},
		{"Blue Beetle", nil, int64(0)},
	})
	if err != nil {
		t.Fatalf("InsertRows: %v", err)
	}
	if n != 2 {
		t.Fatalf("written = %d, want 2", n)
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	want := "MOVIES,RATING,GENRE\nDune,-0.5,2\nBlue Beetle,,0\n"
	if string(got) != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestNoFileBeforeClose(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	repo, _ := NewRepository(storage.Config{Path: path})
	ctx := context.Background()
	if err := repo.CreateTable(ctx, defs()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("output file exists before Close")
	}
	if err := repo.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestRowWidthMismatchAborts(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out.csv")
	repo, _ := NewRepository(storage.Config{Path: path})
	ctx := context.Background()
	if err := repo.CreateTable(ctx, defs()); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if _, err := repo.InsertRows(ctx, []string{"A", "B"}, [][]any{{"only-one"}}); err == nil {
		t.Fatalf("expected width mismatch error")
	}
	_ = repo.Close()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial output was installed")
	}
}

func TestRegisteredWithFactory(t *testing.T) {
	t.Parallel()

	repo, err := storage.New(context.Background(), storage.Config{
		Kind: "csvfile",
		Path: filepath.Join(t.TempDir(), "out.csv"),
	})
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if repo == nil {
		t.Fatalf("nil repository from factory")
	}
}
