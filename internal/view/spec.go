// Package view builds fully-specified chart datasets from the current
// dataset snapshot and a chart's selection state. The output is plain
// data handed to the presentation adapter; no rendering logic lives here.
package view

const (
	KindComposition Kind = "composition"
	KindDetail      Kind = "detail"
	KindTag         Kind = "tag"
	KindTrend       Kind = "trend"
	KindNoData      Kind = "nodata"
)

type (
	// Kind enumerates the chart spec variants.
	Kind string

	// Point is one labeled data point: a pie slice or a trend sample.
	// Value is in whole units; Display is the ready-made slice label.
	Point struct {
		Label   string  `json:"label"`
		Value   float64 `json:"value"`
		Display string  `json:"display"`
	}

	// ChartSpec is the renderer-facing description of one chart. A
	// KindNoData spec is a valid placeholder, not an error: it means the
	// current filter produced zero rows.
	ChartSpec struct {
		Kind    Kind    `json:"kind"`
		Title   string  `json:"title"`
		Points  []Point `json:"points,omitempty"`
		Message string  `json:"message,omitempty"`
	}
)

// NoData returns the placeholder spec for a filter that matched nothing.
func NoData(title, message string) ChartSpec {
	return ChartSpec{Kind: KindNoData, Title: title, Message: message}
}
