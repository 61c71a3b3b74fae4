// Package parser turns raw source bytes into an in-memory table.
package parser

import (
	"io"

	"cleanse/internal/table"
)

// Parser reads an entire input and returns the resulting table plus the
// number of malformed rows it skipped (soft failures).
type Parser interface {
	Parse(r io.Reader) (*table.Table, int, error)
}
