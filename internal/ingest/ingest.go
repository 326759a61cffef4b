// Package ingest turns raw tabular rows into normalized core.Records.
// Column names and the two flow-type literals are configuration: localized
// exports work as long as the schema maps their headers and literals.
//
// A single malformed row fails the whole load. Silently dropping rows
// would corrupt every sum downstream, so the caller surfaces the failure
// as "cannot process file".
package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/source"
)

type (
	// Schema names the required columns of an export and the two literal
	// values of the flow-type column.
	Schema struct {
		DateColumn        string
		AmountColumn      string
		FlowColumn        string
		CategoryColumn    string
		SubCategoryColumn string
		TagColumn         string

		IncomeLiteral  string
		ExpenseLiteral string

		// DateLayouts are tried in order when parsing the date cell.
		DateLayouts []string
	}

	// SchemaError reports a required column missing from the header.
	SchemaError struct {
		Column string
	}

	// RowError reports an unparseable cell. Row is 1-based over data rows
	// (the header is row 0).
	RowError struct {
		Row    int
		Column string
		Value  string
		Err    error
	}

	columnIndex struct {
		date, amount, flow, category, subCategory, tag int
	}
)

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required column %q", e.Column)
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: column %q: cannot parse %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// DefaultDateLayouts cover the formats seen in real bill exports.
var DefaultDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"02/01/2006",
}

// DefaultSchema returns the column names and flow literals of a plain
// English export. Deployments override these via configuration.
func DefaultSchema() Schema {
	return Schema{
		DateColumn:        "date",
		AmountColumn:      "amount",
		FlowColumn:        "type",
		CategoryColumn:    "category",
		SubCategoryColumn: "subcategory",
		TagColumn:         "tag",
		IncomeLiteral:     "income",
		ExpenseLiteral:    "expense",
		DateLayouts:       DefaultDateLayouts,
	}
}

// Load reads the source and builds one record per data row. Column order
// in the header is arbitrary; only the names matter.
func Load(ctx context.Context, src source.RowSource, schema Schema) ([]core.Record, error) {
	header, rows, err := src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	idx, err := schema.resolve(header)
	if err != nil {
		return nil, err
	}

	records := make([]core.Record, 0, len(rows))
	for i, row := range rows {
		rec, err := schema.buildRecord(idx, i+1, row)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// resolve maps schema column names to header positions. Matching is
// case-insensitive on trimmed header cells.
func (s Schema) resolve(header []string) (columnIndex, error) {
	find := func(name string) int {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), name) {
				return i
			}
		}
		return -1
	}

	idx := columnIndex{
		date:        find(s.DateColumn),
		amount:      find(s.AmountColumn),
		flow:        find(s.FlowColumn),
		category:    find(s.CategoryColumn),
		subCategory: find(s.SubCategoryColumn),
		tag:         find(s.TagColumn),
	}

	required := []struct {
		name string
		pos  int
	}{
		{s.DateColumn, idx.date},
		{s.AmountColumn, idx.amount},
		{s.FlowColumn, idx.flow},
		{s.CategoryColumn, idx.category},
	}
	for _, col := range required {
		if col.pos < 0 {
			return columnIndex{}, &SchemaError{Column: col.name}
		}
	}
	// Sub-category and tag columns are optional; rows simply have no value.
	return idx, nil
}

func (s Schema) buildRecord(idx columnIndex, rowNum int, row []string) (core.Record, error) {
	cell := func(pos int) string {
		if pos < 0 || pos >= len(row) {
			return ""
		}
		return row[pos]
	}

	date, err := s.parseDate(cell(idx.date))
	if err != nil {
		return core.Record{}, &RowError{Row: rowNum, Column: s.DateColumn, Value: cell(idx.date), Err: err}
	}

	cents, err := core.ParseSignedDecimalToCents(cell(idx.amount))
	if err != nil {
		return core.Record{}, &RowError{Row: rowNum, Column: s.AmountColumn, Value: cell(idx.amount), Err: err}
	}

	flow, err := s.parseFlow(cell(idx.flow))
	if err != nil {
		return core.Record{}, &RowError{Row: rowNum, Column: s.FlowColumn, Value: cell(idx.flow), Err: err}
	}

	rec, err := core.NewRecord(date, core.Money{Cents: cents}, flow, cell(idx.category), cell(idx.subCategory), cell(idx.tag))
	if err != nil {
		return core.Record{}, &RowError{Row: rowNum, Column: s.CategoryColumn, Value: cell(idx.category), Err: err}
	}
	return rec, nil
}

func (s Schema) parseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	layouts := s.DateLayouts
	if len(layouts) == 0 {
		layouts = DefaultDateLayouts
	}
	for _, layout := range layouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}

func (s Schema) parseFlow(value string) (core.FlowType, error) {
	switch strings.TrimSpace(value) {
	case s.IncomeLiteral:
		return core.Income, nil
	case s.ExpenseLiteral:
		return core.Expense, nil
	default:
		return "", fmt.Errorf("%w: expected %q or %q", core.ErrInvalidFlow, s.IncomeLiteral, s.ExpenseLiteral)
	}
}
