// Package aggregate contains the pure grouping and summation functions
// behind every chart. All sums are over the absolute amount, so income and
// expense magnitudes stay non-negative regardless of the source's sign
// convention.
package aggregate

import (
	"sort"

	"github.com/JIDAIN/bill/internal/core"
)

const (
	ByCategory Column = iota
	BySubCategory
	ByTag
)

type (
	// Column selects which record field grouping keys are drawn from.
	Column int

	// Entry is one (key, sum) pair of a grouped result.
	Entry struct {
		Key string
		Sum core.Money
	}

	// Result is an ordered sequence of entries. Order is the first-appearance
	// order of each key in the input, so legend ordering is reproducible from
	// row order.
	Result []Entry

	// MonthPoint is one point of a monthly trend series.
	MonthPoint struct {
		Month string // "YYYY-MM" bucket
		Sum   core.Money
	}
)

// Value returns the grouping key of a record for this column.
func (c Column) Value(rec core.Record) string {
	switch c {
	case BySubCategory:
		return rec.SubCategory
	case ByTag:
		return rec.Tag
	default:
		return rec.Category
	}
}

// GroupAndSum groups records by the value of col, summing AmountAbs per
// group. Records with no value in the grouping column are skipped: an
// anonymous slice has no place in a legend, and counting it would skew
// the per-chart total. An empty input yields an empty Result, not an
// error; callers decide whether that means a placeholder chart.
func GroupAndSum(records []core.Record, col Column) Result {
	index := make(map[string]int, len(records))
	var out Result
	for _, rec := range records {
		key := col.Value(rec)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Entry{Key: key})
		}
		out[i].Sum = out[i].Sum.Add(rec.AmountAbs)
	}
	return out
}

// Total returns the sum of all entries, i.e. the total absolute amount of
// the grouped subset.
func (r Result) Total() core.Money {
	var total core.Money
	for _, e := range r {
		total = total.Add(e.Sum)
	}
	return total
}

// GroupByMonth filters records to those whose col value equals value,
// groups by month bucket and sums AmountAbs. The result is sorted
// ascending by bucket: trend charts need chronological order regardless
// of row order in the source file.
func GroupByMonth(records []core.Record, col Column, value string) []MonthPoint {
	index := make(map[string]int)
	var out []MonthPoint
	for _, rec := range records {
		if col.Value(rec) != value {
			continue
		}
		i, ok := index[rec.MonthBucket]
		if !ok {
			i = len(out)
			index[rec.MonthBucket] = i
			out = append(out, MonthPoint{Month: rec.MonthBucket})
		}
		out[i].Sum = out[i].Sum.Add(rec.AmountAbs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// ByYear returns the records dated in the given year, preserving order.
func ByYear(records []core.Record, year int) []core.Record {
	var out []core.Record
	for _, rec := range records {
		if rec.Year == year {
			out = append(out, rec)
		}
	}
	return out
}

// ByCategoryValue returns the records with the given category, preserving order.
func ByCategoryValue(records []core.Record, category string) []core.Record {
	var out []core.Record
	for _, rec := range records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out
}

// BySubCategorySet returns the records whose sub-category is in the given
// set, preserving order. An empty set matches nothing.
func BySubCategorySet(records []core.Record, subCategories []string) []core.Record {
	if len(subCategories) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(subCategories))
	for _, s := range subCategories {
		allowed[s] = struct{}{}
	}
	var out []core.Record
	for _, rec := range records {
		if _, ok := allowed[rec.SubCategory]; ok {
			out = append(out, rec)
		}
	}
	return out
}
