package ingest

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/source"
)

func load(t *testing.T, csv string, schema Schema) ([]core.Record, error) {
	t.Helper()
	return Load(context.Background(), source.NewCSV(strings.NewReader(csv)), schema)
}

func TestLoadBuildsNormalizedRecords(t *testing.T) {
	csv := strings.Join([]string{
		"date,amount,type,category,subcategory,tag",
		"2024-03-07,-20.50,expense,Food,Groceries,weekly",
		"2024-03-08,1500,income,Salary,,",
	}, "\n")
	records, err := load(t, csv, DefaultSchema())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	r := records[0]
	if r.Flow != core.Expense || r.Category != "Food" || r.SubCategory != "Groceries" || r.Tag != "weekly" {
		t.Fatalf("unexpected record: %+v", r)
	}
	if r.AmountAbs.Cents != 2050 || r.MonthBucket != "2024-03" || r.Year != 2024 {
		t.Fatalf("derived fields wrong: %+v", r)
	}
	if records[1].Flow != core.Income {
		t.Fatalf("expected income record, got %+v", records[1])
	}
}

func TestLoadArbitraryColumnOrder(t *testing.T) {
	csv := strings.Join([]string{
		"tag,category,TYPE,amount,Date,subcategory",
		"t1,Food,expense,10,2024-01-01,Dining",
	}, "\n")
	records, err := load(t, csv, DefaultSchema())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if records[0].Category != "Food" || records[0].Tag != "t1" || records[0].SubCategory != "Dining" {
		t.Fatalf("column order must not matter: %+v", records[0])
	}
}

func TestLoadLocalizedLiterals(t *testing.T) {
	schema := DefaultSchema()
	schema.FlowColumn = "tipo"
	schema.IncomeLiteral = "entrata"
	schema.ExpenseLiteral = "uscita"
	csv := strings.Join([]string{
		"date,amount,tipo,category,subcategory,tag",
		"2024-01-01,5,uscita,Cibo,,",
	}, "\n")
	records, err := load(t, csv, schema)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if records[0].Flow != core.Expense {
		t.Fatalf("expected expense, got %q", records[0].Flow)
	}
}

func TestLoadMalformedRowFailsWholeLoad(t *testing.T) {
	cases := []struct {
		name   string
		row    string
		column string
	}{
		{"bad date", "not-a-date,10,expense,Food,,", "date"},
		{"bad amount", "2024-01-01,ten,expense,Food,,", "amount"},
		{"bad flow", "2024-01-01,10,transfer,Food,,", "type"},
	}
	for _, tc := range cases {
		csv := "date,amount,type,category,subcategory,tag\n" +
			"2024-01-01,1,expense,Food,,\n" + tc.row + "\n"
		_, err := load(t, csv, DefaultSchema())
		var rowErr *RowError
		if !errors.As(err, &rowErr) {
			t.Fatalf("%s: expected RowError, got %v", tc.name, err)
		}
		if rowErr.Row != 2 || rowErr.Column != tc.column {
			t.Fatalf("%s: unexpected row error %+v", tc.name, rowErr)
		}
	}
}

func TestLoadMissingRequiredColumn(t *testing.T) {
	csv := "date,amount,category\n2024-01-01,1,Food\n"
	_, err := load(t, csv, DefaultSchema())
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Column != "type" {
		t.Fatalf("expected missing type column, got %q", schemaErr.Column)
	}
}

func TestLoadOptionalColumnsMayBeAbsent(t *testing.T) {
	csv := "date,amount,type,category\n2024-01-01,1,expense,Food\n"
	records, err := load(t, csv, DefaultSchema())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if records[0].SubCategory != "" || records[0].Tag != "" {
		t.Fatalf("optional cells should be empty: %+v", records[0])
	}
}

func TestLoadEmptyFileYieldsNoRecords(t *testing.T) {
	csv := "date,amount,type,category,subcategory,tag\n"
	records, err := load(t, csv, DefaultSchema())
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("expected no records, got %d", len(records))
	}
}
