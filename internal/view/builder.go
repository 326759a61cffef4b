package view

import (
	"fmt"

	"github.com/JIDAIN/bill/internal/aggregate"
	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/dataset"
	"github.com/JIDAIN/bill/internal/selection"
)

// Composition builds the part-of-whole chart for one flow type, filtered
// to the selected year and grouped by category.
func Composition(ds *dataset.Dataset, st *selection.State) ChartSpec {
	flowName := "expense"
	if st.Flow() == core.Income {
		flowName = "income"
	}
	title := fmt.Sprintf("%d %s composition", st.Year(), flowName)

	records := aggregate.ByYear(ds.Flow(st.Flow()), st.Year())
	result := aggregate.GroupAndSum(records, aggregate.ByCategory)
	return pieSpec(KindComposition, title, result, st.DisplayMode())
}

// Detail builds the sub-category breakdown of the selected expense
// category. An empty sub-category selection yields the placeholder spec,
// mirroring the "select at least one" guard in the UI.
func Detail(ds *dataset.Dataset, st *selection.State) ChartSpec {
	title := fmt.Sprintf("[%s] expense detail", st.Category())
	if len(st.SubCategories()) == 0 {
		return NoData(title, "select at least one sub-category")
	}

	records := aggregate.ByCategoryValue(ds.Flow(core.Expense), st.Category())
	records = aggregate.BySubCategorySet(records, st.SubCategories())
	result := aggregate.GroupAndSum(records, aggregate.BySubCategory)
	return pieSpec(KindDetail, title, result, st.DisplayMode())
}

// Tag builds the tag breakdown of the expense subset for the selected year.
func Tag(ds *dataset.Dataset, st *selection.State) ChartSpec {
	title := fmt.Sprintf("%d expense tags", st.Year())

	records := aggregate.ByYear(ds.Flow(core.Expense), st.Year())
	result := aggregate.GroupAndSum(records, aggregate.ByTag)
	return pieSpec(KindTag, title, result, st.DisplayMode())
}

// Trend builds the monthly expense series of one category. Categories
// with no matching rows get a readable placeholder rather than an empty
// chart.
func Trend(ds *dataset.Dataset, category string) ChartSpec {
	points := aggregate.GroupByMonth(ds.Flow(core.Expense), aggregate.ByCategory, category)
	if len(points) == 0 {
		return NoData(category, fmt.Sprintf("no data for %s", category))
	}

	spec := ChartSpec{Kind: KindTrend, Title: category, Points: make([]Point, 0, len(points))}
	for _, p := range points {
		spec.Points = append(spec.Points, Point{
			Label:   p.Month,
			Value:   p.Sum.Units(),
			Display: p.Sum.String(),
		})
	}
	return spec
}

// pieSpec formats an aggregation into slice points. Absolute mode labels
// each slice with the rounded sum; percent mode with its share of this
// chart's total. The total is always the sum of the slices shown, never a
// global figure.
func pieSpec(kind Kind, title string, result aggregate.Result, mode selection.DisplayMode) ChartSpec {
	spec := ChartSpec{Kind: kind, Title: title, Points: make([]Point, 0, len(result))}
	total := result.Total()
	for _, entry := range result {
		point := Point{Label: entry.Key, Value: entry.Sum.Units()}
		if mode == selection.Percent && total.Cents > 0 {
			share := float64(entry.Sum.Cents) / float64(total.Cents) * 100
			point.Display = fmt.Sprintf("%s: %.1f%%", entry.Key, share)
		} else {
			point.Display = fmt.Sprintf("%s: %d", entry.Key, entry.Sum.RoundedUnits())
		}
		spec.Points = append(spec.Points, point)
	}
	return spec
}
