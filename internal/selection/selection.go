// Package selection holds the per-chart UI selections and keeps them
// valid against the current dataset. Invalid choices are never surfaced
// as errors: the state silently clamps to a sensible default, because a
// selection is always recoverable by re-defaulting.
package selection

import (
	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/dataset"
)

const (
	Absolute DisplayMode = "absolute"
	Percent  DisplayMode = "percent"
)

const (
	FieldYear          Field = "year"
	FieldCategory      Field = "category"
	FieldSubCategories Field = "sub_categories"
	FieldDisplayMode   Field = "display_mode"
	FieldDataset       Field = "dataset"
)

type (
	// DisplayMode picks absolute-value or percent-of-total slice labels.
	DisplayMode string

	// Field identifies which selection changed in an Event.
	Field string

	// Event is emitted to subscribers after a change is applied, so only
	// the affected chart re-runs its builder.
	Event struct {
		Field Field
	}

	// State is the selection of one independent chart. Each instance is
	// owned and mutated by a single interaction at a time.
	State struct {
		flow core.FlowType
		ds   *dataset.Dataset

		year          int
		category      string
		subCategories []string
		mode          DisplayMode

		subscribers []func(Event)
	}
)

// Validate reports whether the mode is one of the two recognized values.
func (m DisplayMode) Validate() bool {
	return m == Absolute || m == Percent
}

// New builds a state with the construction defaults: the dataset's latest
// year, the first category of the flow subset, all sub-categories under
// it, absolute display.
func New(ds *dataset.Dataset, flow core.FlowType) *State {
	s := &State{flow: flow}
	s.rebind(ds)
	return s
}

// Rebind points the state at a replaced dataset and re-runs the default
// logic. Selections referencing years or categories absent from the new
// data must not survive the swap.
func (s *State) Rebind(ds *dataset.Dataset) {
	s.rebind(ds)
	s.notify(Event{Field: FieldDataset})
}

func (s *State) rebind(ds *dataset.Dataset) {
	s.ds = ds
	s.year = ds.LatestYear()
	s.category = ""
	if cats := ds.Categories(s.flow); len(cats) > 0 {
		s.category = cats[0]
	}
	s.subCategories = ds.SubCategories(s.category)
	s.mode = Absolute
}

// Subscribe registers a change listener. Listeners run synchronously in
// the mutating interaction.
func (s *State) Subscribe(fn func(Event)) {
	s.subscribers = append(s.subscribers, fn)
}

func (s *State) notify(ev Event) {
	for _, fn := range s.subscribers {
		fn(ev)
	}
}

// SetYear selects a year, clamping to the latest year present when the
// requested one has no data.
func (s *State) SetYear(year int) {
	if !s.ds.HasYear(year) {
		year = s.ds.LatestYear()
	}
	s.year = year
	s.notify(Event{Field: FieldYear})
}

// SetCategory selects a category, clamping to the first available when
// the requested one is absent from the flow subset. The sub-category
// selection is always reset to everything available under the new
// category: stale picks from a different category must never persist.
func (s *State) SetCategory(category string) {
	cats := s.ds.Categories(s.flow)
	if !contains(cats, category) {
		category = ""
		if len(cats) > 0 {
			category = cats[0]
		}
	}
	s.category = category
	s.subCategories = s.ds.SubCategories(category)
	s.notify(Event{Field: FieldCategory})
}

// SetSubCategories selects a subset of the sub-categories available under
// the current category. Unknown names are dropped; the kept ones follow
// the available (first-appearance) order. An empty selection is valid and
// makes the detail view render its placeholder.
func (s *State) SetSubCategories(subCategories []string) {
	requested := make(map[string]struct{}, len(subCategories))
	for _, sub := range subCategories {
		requested[sub] = struct{}{}
	}
	var kept []string
	for _, sub := range s.ds.SubCategories(s.category) {
		if _, ok := requested[sub]; ok {
			kept = append(kept, sub)
		}
	}
	s.subCategories = kept
	s.notify(Event{Field: FieldSubCategories})
}

// SetDisplayMode selects the label mode, clamping to Absolute on an
// unrecognized value.
func (s *State) SetDisplayMode(mode DisplayMode) {
	if !mode.Validate() {
		mode = Absolute
	}
	s.mode = mode
	s.notify(Event{Field: FieldDisplayMode})
}

func (s *State) Flow() core.FlowType      { return s.flow }
func (s *State) Year() int                { return s.year }
func (s *State) Category() string         { return s.category }
func (s *State) SubCategories() []string  { return s.subCategories }
func (s *State) DisplayMode() DisplayMode { return s.mode }

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
