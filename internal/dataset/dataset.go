// Package dataset splits a loaded record set into income and expense
// subsets and exposes the value domains (years, categories, sub-categories)
// that selections are validated against.
package dataset

import (
	"errors"
	"sort"

	"github.com/JIDAIN/bill/internal/core"
)

// ErrEmptyDataset is returned when a load produced zero records. No chart
// can render without at least one row, so the load aborts.
var ErrEmptyDataset = errors.New("dataset contains no records")

// Dataset is an immutable snapshot of one loaded bill export. It is shared
// read-only by every component for the session's duration; a new upload
// replaces the whole snapshot at once.
type Dataset struct {
	all     []core.Record
	income  []core.Record
	expense []core.Record

	years      []int // sorted ascending, distinct
	latestYear int
}

// Partition splits records by flow type, preserving original relative
// order within each subset. It is pure and idempotent: the same input
// always yields the same partition and the same year set.
func Partition(records []core.Record) (*Dataset, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}

	ds := &Dataset{all: records}
	yearSet := make(map[int]struct{})
	for _, rec := range records {
		if rec.Flow == core.Income {
			ds.income = append(ds.income, rec)
		} else {
			ds.expense = append(ds.expense, rec)
		}
		yearSet[rec.Year] = struct{}{}
	}

	ds.years = make([]int, 0, len(yearSet))
	for y := range yearSet {
		ds.years = append(ds.years, y)
	}
	sort.Ints(ds.years)
	ds.latestYear = ds.years[len(ds.years)-1]

	return ds, nil
}

// All returns every record in original order.
func (d *Dataset) All() []core.Record { return d.all }

// Flow returns the subset for one flow type, in original relative order.
func (d *Dataset) Flow(flow core.FlowType) []core.Record {
	if flow == core.Income {
		return d.income
	}
	return d.expense
}

// Years returns the distinct years present, sorted ascending.
func (d *Dataset) Years() []int { return d.years }

// LatestYear returns the maximum year present in the data.
func (d *Dataset) LatestYear() int { return d.latestYear }

// HasYear reports whether any record is dated in the given year.
func (d *Dataset) HasYear(year int) bool {
	i := sort.SearchInts(d.years, year)
	return i < len(d.years) && d.years[i] == year
}

// Categories returns the distinct categories of a flow subset in
// first-appearance order, matching the aggregator's key ordering so
// selection defaults line up with legend order.
func (d *Dataset) Categories(flow core.FlowType) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range d.Flow(flow) {
		if _, ok := seen[rec.Category]; ok {
			continue
		}
		seen[rec.Category] = struct{}{}
		out = append(out, rec.Category)
	}
	return out
}

// SubCategories returns the distinct sub-categories present under a
// category in the expense subset, in first-appearance order. Rows without
// a sub-category are skipped.
func (d *Dataset) SubCategories(category string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range d.expense {
		if rec.Category != category || rec.SubCategory == "" {
			continue
		}
		if _, ok := seen[rec.SubCategory]; ok {
			continue
		}
		seen[rec.SubCategory] = struct{}{}
		out = append(out, rec.SubCategory)
	}
	return out
}
