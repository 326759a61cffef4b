package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JIDAIN/bill/internal/cache"
	"github.com/JIDAIN/bill/internal/core"
	"github.com/JIDAIN/bill/internal/ingest"
	"github.com/JIDAIN/bill/internal/log"
)

// Manager is the uuid-keyed registry of live sessions. The parse cache is
// shared across sessions: two sessions uploading the same file parse it
// once.
type Manager struct {
	logger     *log.Logger
	schema     ingest.Schema
	trendOrder []string
	parseCache *cache.LRU[[]core.Record]

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(logger *log.Logger, schema ingest.Schema, trendOrder []string, cacheSize int, cacheTTL time.Duration) *Manager {
	return &Manager{
		logger:     logger,
		schema:     schema,
		trendOrder: trendOrder,
		parseCache: cache.NewLRU[[]core.Record](cacheSize, cacheTTL),
		sessions:   make(map[string]*Session),
	}
}

// Create registers a new empty session and returns it.
func (m *Manager) Create() *Session {
	id := uuid.NewString()
	s := newSession(id, m.logger, m.schema, m.trendOrder, m.parseCache)

	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	m.logger.Info("session created", log.FieldOperation, log.OpCreate, log.FieldSession, id)
	return s
}

// Get returns a live session by id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// End drops a session; its snapshot and states go with it. The shared
// parse cache is left alone, entries age out by TTL.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.logger.Info("session ended", log.FieldOperation, log.OpTeardown, log.FieldSession, id)
	}
	return ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ParseCache exposes the shared cache for janitor registration.
func (m *Manager) ParseCache() cache.Cleaner {
	return m.parseCache
}
