// Package session owns the per-session context: the current dataset
// snapshot, the parse cache keyed by file content, and the selection
// state of every chart. All module-level dataset state of the original
// dashboard lives here instead, so teardown is just dropping the session.
package session

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/JIDAIN/bill/internal/cache"
	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/dataset"
	"github.com/JIDAIN/bill/internal/ingest"
	"github.com/JIDAIN/bill/internal/log"
	"github.com/JIDAIN/bill/internal/selection"
	"github.com/JIDAIN/bill/internal/source"
	"github.com/JIDAIN/bill/internal/view"
)

// Fixed chart identifiers. Trend charts are addressed as "trend:<category>".
const (
	ChartIncomeComposition  = "income-composition"
	ChartExpenseComposition = "expense-composition"
	ChartExpenseDetail      = "expense-detail"
	ChartExpenseTags        = "expense-tags"

	trendPrefix = "trend:"
)

var (
	ErrNoDataset    = errors.New("no dataset loaded")
	ErrUnknownChart = errors.New("unknown chart")
)

// Session is one dashboard session: a single loaded dataset and the
// selection states driving its charts. The snapshot pointer and the
// states are guarded together so a reload swaps them atomically; no
// chart build ever sees old records against new selection bounds.
type Session struct {
	ID string

	logger     *log.Logger
	schema     ingest.Schema
	trendOrder []string
	parseCache *cache.LRU[[]core.Record]

	mu     sync.RWMutex
	ds     *dataset.Dataset
	states map[string]*selection.State
	built  map[string]*view.ChartSpec // per-chart memo, invalidated by selection events
}

// SelectionUpdate carries the changed fields of one chart's selection.
// Nil pointers mean "unchanged".
type SelectionUpdate struct {
	Year          *int      `json:"year,omitempty"`
	Category      *string   `json:"category,omitempty"`
	SubCategories *[]string `json:"subCategories,omitempty"`
	DisplayMode   *string   `json:"displayMode,omitempty"`
}

func newSession(id string, logger *log.Logger, schema ingest.Schema, trendOrder []string, parseCache *cache.LRU[[]core.Record]) *Session {
	return &Session{
		ID:         id,
		logger:     logger.WithComponent(log.ComponentSession).With(log.FieldSession, id),
		schema:     schema,
		trendOrder: trendOrder,
		parseCache: parseCache,
		built:      make(map[string]*view.ChartSpec),
	}
}

// Load reads one uploaded export, parses it (through the content-keyed
// cache) and atomically replaces the session's dataset. Every chart's
// selection state is re-defaulted against the new data.
func (s *Session) Load(ctx context.Context, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}

	sum := sha256.Sum256(data)
	key := hex.EncodeToString(sum[:])

	records, hit := s.parseCache.Get(key)
	if !hit {
		records, err = ingest.Load(ctx, source.NewCSV(bytes.NewReader(data)), s.schema)
		if err != nil {
			return err
		}
		s.parseCache.Set(key, records)
	}
	s.logger.InfoContext(ctx, "export parsed",
		log.FieldOperation, log.OpLoad,
		log.FieldContentKey, key[:12],
		log.FieldCacheHit, hit,
		log.FieldRecords, len(records),
	)

	return s.install(ctx, records)
}

// LoadFrom ingests from an arbitrary row source (e.g. a Google Sheets
// tab). Sources without stable content identity bypass the parse cache.
func (s *Session) LoadFrom(ctx context.Context, src source.RowSource) error {
	records, err := ingest.Load(ctx, src, s.schema)
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "export parsed",
		log.FieldOperation, log.OpLoad,
		log.FieldRecords, len(records),
	)
	return s.install(ctx, records)
}

func (s *Session) install(ctx context.Context, records []core.Record) error {
	ds, err := dataset.Partition(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ds = ds
	if s.states == nil {
		s.states = map[string]*selection.State{
			ChartIncomeComposition:  selection.New(ds, core.Income),
			ChartExpenseComposition: selection.New(ds, core.Expense),
			ChartExpenseDetail:      selection.New(ds, core.Expense),
			ChartExpenseTags:        selection.New(ds, core.Expense),
		}
		for id, st := range s.states {
			chartID := id
			st.Subscribe(func(selection.Event) { delete(s.built, chartID) })
		}
	} else {
		for _, st := range s.states {
			st.Rebind(ds)
		}
	}
	// All memoized specs refer to the old snapshot.
	s.built = make(map[string]*view.ChartSpec)

	s.logger.InfoContext(ctx, "dataset installed",
		log.FieldOperation, log.OpPartition,
		log.FieldRecords, len(records),
		log.FieldYears, len(ds.Years()),
	)
	return nil
}

// Loaded reports whether a dataset has been installed.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ds != nil
}

// ChartIDs lists every chart of this dashboard in display order: the four
// fixed charts, then one trend per configured category.
func (s *Session) ChartIDs() []string {
	ids := []string{ChartIncomeComposition, ChartExpenseComposition, ChartExpenseDetail, ChartExpenseTags}
	for _, cat := range s.trendOrder {
		ids = append(ids, trendPrefix+cat)
	}
	return ids
}

// Spec builds (or returns the memoized) chart spec for one chart.
func (s *Session) Spec(chartID string) (view.ChartSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.specLocked(chartID)
}

func (s *Session) specLocked(chartID string) (view.ChartSpec, error) {
	if s.ds == nil {
		return view.ChartSpec{}, ErrNoDataset
	}
	if spec, ok := s.built[chartID]; ok {
		return *spec, nil
	}

	var spec view.ChartSpec
	switch chartID {
	case ChartIncomeComposition, ChartExpenseComposition:
		spec = view.Composition(s.ds, s.states[chartID])
	case ChartExpenseDetail:
		spec = view.Detail(s.ds, s.states[chartID])
	case ChartExpenseTags:
		spec = view.Tag(s.ds, s.states[chartID])
	default:
		category, ok := s.trendCategory(chartID)
		if !ok {
			return view.ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownChart, chartID)
		}
		spec = view.Trend(s.ds, category)
	}
	s.built[chartID] = &spec
	return spec, nil
}

func (s *Session) trendCategory(chartID string) (string, bool) {
	if len(chartID) <= len(trendPrefix) || chartID[:len(trendPrefix)] != trendPrefix {
		return "", false
	}
	category := chartID[len(trendPrefix):]
	for _, cat := range s.trendOrder {
		if cat == category {
			return category, true
		}
	}
	// Categories outside the configured order have no trend chart.
	return "", false
}

// Specs builds every chart spec in display order. Trend charts are
// independent pure reads of the snapshot, so they fan out concurrently.
func (s *Session) Specs(ctx context.Context) ([]view.ChartSpec, error) {
	s.mu.Lock()
	if s.ds == nil {
		s.mu.Unlock()
		return nil, ErrNoDataset
	}

	fixed := []string{ChartIncomeComposition, ChartExpenseComposition, ChartExpenseDetail, ChartExpenseTags}
	specs := make([]view.ChartSpec, len(fixed)+len(s.trendOrder))
	for i, id := range fixed {
		spec, err := s.specLocked(id)
		if err != nil {
			s.mu.Unlock()
			return nil, err
		}
		specs[i] = spec
	}
	ds := s.ds
	s.mu.Unlock()

	g, _ := errgroup.WithContext(ctx)
	for i, cat := range s.trendOrder {
		i, cat := i, cat
		g.Go(func() error {
			specs[len(fixed)+i] = view.Trend(ds, cat)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return specs, nil
}

// Update applies a selection change to one chart and returns its rebuilt
// spec. Out-of-range values are clamped by the selection state, never
// rejected; only unknown charts (trends have no selection) error.
func (s *Session) Update(chartID string, upd SelectionUpdate) (view.ChartSpec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ds == nil {
		return view.ChartSpec{}, ErrNoDataset
	}
	st, ok := s.states[chartID]
	if !ok {
		return view.ChartSpec{}, fmt.Errorf("%w: %q", ErrUnknownChart, chartID)
	}

	if upd.Year != nil {
		st.SetYear(*upd.Year)
	}
	if upd.Category != nil {
		st.SetCategory(*upd.Category)
	}
	if upd.SubCategories != nil {
		st.SetSubCategories(*upd.SubCategories)
	}
	if upd.DisplayMode != nil {
		st.SetDisplayMode(selection.DisplayMode(*upd.DisplayMode))
	}

	return s.specLocked(chartID)
}

// State exposes a chart's selection state for read-only inspection.
func (s *Session) State(chartID string) (*selection.State, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[chartID]
	return st, ok
}
