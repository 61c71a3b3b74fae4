// Package datasource abstracts where the raw table bytes come from.
package datasource

import (
	"context"
	"io"
)

// Source opens a readable stream of raw tabular data.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
