// Package csv parses delimited text into a table.Table. The parser is
// deliberately lenient with quoting and row width: real-world exports are
// rarely pristine, and a malformed row should cost one row, not the run.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"cleanse/internal/table"
)

// Options configures the CSV parser. Zero values select sensible defaults.
type Options struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune

	// TrimSpace trims leading/trailing spaces from each cell.
	TrimSpace bool

	// LazyQuotes tolerates unescaped quotes inside fields.
	LazyQuotes bool
}

// Parser parses CSV input according to Options. A Parser may be reused across
// inputs but is not safe for concurrent use.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// Parse reads the whole input. The first row is the header; every cell is
// kept as raw text (no coercion), with empty cells marked missing. Rows whose
// width differs from the header are skipped and counted.
func (p *Parser) Parse(r io.Reader) (*table.Table, int, error) {
	cr := csv.NewReader(r)
	cr.Comma = ','
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = p.opt.LazyQuotes
	cr.TrimLeadingSpace = false

	header, err := cr.Read()
	if err == io.EOF {
		return nil, 0, fmt.Errorf("csv: empty input")
	}
	if err != nil {
		return nil, 0, fmt.Errorf("csv: read header: %w", err)
	}
	header = StripHeaderBOM(header)

	width := len(header)
	cells := make([][]string, width)
	nulls := make([][]bool, width)

	skipped := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// encoding/csv reports quoting errors per record; soft-drop.
			skipped++
			continue
		}
		if len(rec) != width {
			skipped++
			continue
		}
		for i, cell := range rec {
			if p.opt.TrimSpace {
				cell = strings.TrimSpace(cell)
			}
			cells[i] = append(cells[i], cell)
			nulls[i] = append(nulls[i], cell == "")
		}
	}

	cols := make([]*table.Column, width)
	for i, name := range header {
		cols[i] = table.NewText(name, cells[i], nulls[i])
	}
	t, err := table.New(cols...)
	if err != nil {
		return nil, skipped, fmt.Errorf("csv: %w", err)
	}
	return t, skipped, nil
}
