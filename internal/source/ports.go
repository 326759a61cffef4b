// Package source provides the tabular row sources a bill export can be
// read from. Parsing rows into records is the ingest package's job; a
// source only delivers a header and raw string cells.
package source

import "context"

// RowSource delivers one tabular export: a header row naming the columns
// (arbitrary order) and the data rows beneath it.
type RowSource interface {
	Read(ctx context.Context) (header []string, rows [][]string, err error)
}
