package dataset

import (
	"errors"
	"testing"
	"time"

	"github.com/JIDAIN/bill/internal/core"
)

func rec(t *testing.T, date string, flow core.FlowType, cat, sub string) core.Record {
	t.Helper()
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	r, err := core.NewRecord(d, core.Money{Cents: 100}, flow, cat, sub, "")
	if err != nil {
		t.Fatalf("bad test record: %v", err)
	}
	return r
}

func TestPartitionIsTruePartition(t *testing.T) {
	records := []core.Record{
		rec(t, "2022-01-01", core.Income, "Salary", ""),
		rec(t, "2023-02-01", core.Expense, "Food", "Groceries"),
		rec(t, "2023-03-01", core.Income, "Bonus", ""),
		rec(t, "2024-04-01", core.Expense, "Travel", "Hotel"),
	}
	ds, err := Partition(records)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	income, expense := ds.Flow(core.Income), ds.Flow(core.Expense)
	if len(income)+len(expense) != len(records) {
		t.Fatalf("partition lost rows: %d + %d != %d", len(income), len(expense), len(records))
	}
	for _, r := range income {
		if r.Flow != core.Income {
			t.Fatalf("expense record in income subset: %v", r)
		}
	}
	for _, r := range expense {
		if r.Flow != core.Expense {
			t.Fatalf("income record in expense subset: %v", r)
		}
	}
	// Relative order within each subset matches input order.
	if income[0].Category != "Salary" || income[1].Category != "Bonus" {
		t.Fatalf("income order not preserved: %v", income)
	}
}

func TestPartitionYears(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-06-01", core.Expense, "Food", ""),
		rec(t, "2022-01-01", core.Expense, "Food", ""),
		rec(t, "2023-01-01", core.Income, "Salary", ""),
		rec(t, "2022-12-31", core.Expense, "Travel", ""),
	}
	ds, err := Partition(records)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	years := ds.Years()
	want := []int{2022, 2023, 2024}
	if len(years) != len(want) {
		t.Fatalf("expected %v, got %v", want, years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, years)
		}
	}
	if ds.LatestYear() != 2024 {
		t.Fatalf("latest year: expected 2024, got %d", ds.LatestYear())
	}
	if !ds.HasYear(2023) || ds.HasYear(2021) {
		t.Fatalf("HasYear misbehaved")
	}
}

func TestPartitionEmpty(t *testing.T) {
	if _, err := Partition(nil); !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestCategoriesFirstAppearanceOrder(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-01-01", core.Expense, "Zoo", ""),
		rec(t, "2024-01-02", core.Expense, "Alpha", ""),
		rec(t, "2024-01-03", core.Expense, "Zoo", ""),
		rec(t, "2024-01-04", core.Income, "Salary", ""),
	}
	ds, err := Partition(records)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	got := ds.Categories(core.Expense)
	want := []string{"Zoo", "Alpha"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if inc := ds.Categories(core.Income); len(inc) != 1 || inc[0] != "Salary" {
		t.Fatalf("income categories: %v", inc)
	}
}

func TestSubCategoriesScopedToCategory(t *testing.T) {
	records := []core.Record{
		rec(t, "2024-01-01", core.Expense, "Food", "Groceries"),
		rec(t, "2024-01-02", core.Expense, "Food", "Dining"),
		rec(t, "2024-01-03", core.Expense, "Travel", "Hotel"),
		rec(t, "2024-01-04", core.Expense, "Food", "Groceries"),
		rec(t, "2024-01-05", core.Expense, "Food", ""), // no sub-category
	}
	ds, err := Partition(records)
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	got := ds.SubCategories("Food")
	want := []string{"Groceries", "Dining"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := ds.SubCategories("Missing"); len(got) != 0 {
		t.Fatalf("expected no sub-categories, got %v", got)
	}
}
