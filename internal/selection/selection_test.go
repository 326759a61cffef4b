package selection

import (
	"testing"
	"time"

	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/dataset"
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

func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds, err := dataset.Partition([]core.Record{
		rec(t, "2022-01-01", core.Expense, "Food", "Groceries"),
		rec(t, "2023-02-01", core.Expense, "Food", "Dining"),
		rec(t, "2024-03-01", core.Expense, "Travel", "Hotel"),
		rec(t, "2024-04-01", core.Income, "Salary", ""),
	})
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	return ds
}

func TestDefaults(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	if st.Year() != 2024 {
		t.Fatalf("default year: expected 2024, got %d", st.Year())
	}
	if st.Category() != "Food" {
		t.Fatalf("default category: expected first-appearance Food, got %q", st.Category())
	}
	subs := st.SubCategories()
	if len(subs) != 2 || subs[0] != "Groceries" || subs[1] != "Dining" {
		t.Fatalf("default sub-categories: expected all under Food, got %v", subs)
	}
	if st.DisplayMode() != Absolute {
		t.Fatalf("default mode: expected absolute, got %q", st.DisplayMode())
	}
}

func TestSetYearClampsToLatest(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetYear(2023)
	if st.Year() != 2023 {
		t.Fatalf("expected 2023, got %d", st.Year())
	}
	st.SetYear(1999)
	if st.Year() != 2024 {
		t.Fatalf("absent year must clamp to latest, got %d", st.Year())
	}
}

func TestSetCategoryResetsSubCategories(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetSubCategories([]string{"Dining"})
	st.SetCategory("Travel")
	subs := st.SubCategories()
	if len(subs) != 1 || subs[0] != "Hotel" {
		t.Fatalf("sub-categories must reset to all under Travel, got %v", subs)
	}
}

func TestSetCategoryClampsToFirst(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetCategory("Nonexistent")
	if st.Category() != "Food" {
		t.Fatalf("absent category must clamp to first, got %q", st.Category())
	}
}

func TestSetSubCategoriesIntersectsAvailable(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetSubCategories([]string{"Dining", "Hotel", "Made-up"})
	subs := st.SubCategories()
	if len(subs) != 1 || subs[0] != "Dining" {
		t.Fatalf("expected only Dining kept, got %v", subs)
	}
	st.SetSubCategories(nil)
	if len(st.SubCategories()) != 0 {
		t.Fatalf("empty selection must be allowed, got %v", st.SubCategories())
	}
}

func TestSetDisplayModeClamps(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetDisplayMode(Percent)
	if st.DisplayMode() != Percent {
		t.Fatalf("expected percent, got %q", st.DisplayMode())
	}
	st.SetDisplayMode(DisplayMode("3d"))
	if st.DisplayMode() != Absolute {
		t.Fatalf("invalid mode must clamp to absolute, got %q", st.DisplayMode())
	}
}

func TestRebindReDefaults(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	st.SetYear(2022)
	st.SetCategory("Travel")

	next, err := dataset.Partition([]core.Record{
		rec(t, "2025-01-01", core.Expense, "Rent", ""),
	})
	if err != nil {
		t.Fatalf("partition: %v", err)
	}
	st.Rebind(next)

	if st.Year() != 2025 {
		t.Fatalf("rebind must re-default year to 2025, got %d", st.Year())
	}
	if st.Category() != "Rent" {
		t.Fatalf("rebind must re-default category, got %q", st.Category())
	}
	if st.DisplayMode() != Absolute {
		t.Fatalf("rebind must reset mode, got %q", st.DisplayMode())
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	st := New(testDataset(t), core.Expense)
	var got []Field
	st.Subscribe(func(ev Event) { got = append(got, ev.Field) })

	st.SetYear(2023)
	st.SetCategory("Travel")
	st.SetSubCategories([]string{"Hotel"})
	st.SetDisplayMode(Percent)

	want := []Field{FieldYear, FieldCategory, FieldSubCategories, FieldDisplayMode}
	if len(got) != len(want) {
		t.Fatalf("expected %d events, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("event %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
