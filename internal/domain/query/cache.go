package query

import (
	"context"
	"sync"

	"github.com/okian/scorevault/internal/domain/model"
	"github.com/okian/scorevault/pkg/metrics"
)

// Session is a read-through snapshot cache scoped to one query
// interaction. Snapshots are immutable once written, so caching within
// a session is always safe; the cache is never authoritative across
// sessions, and a new session reloads from the durable store.
type Session struct {
	engine *Engine

	mu    sync.Mutex
	cache map[model.Date]*model.DailySnapshot
}

// NewSession creates an empty session over the engine's loader.
func (e *Engine) NewSession() *Session {
	return &Session{
		engine: e,
		cache:  make(map[model.Date]*model.DailySnapshot),
	}
}

// Clear drops every cached snapshot, forcing reloads.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[model.Date]*model.DailySnapshot)
}

// snapshot loads a date through the cache. Absence is cached too: a
// date known to have no snapshot is not re-fetched within the session.
func (s *Session) snapshot(ctx context.Context, date model.Date) (*model.DailySnapshot, error) {
	s.mu.Lock()
	if snap, ok := s.cache[date]; ok {
		s.mu.Unlock()
		metrics.RecordSnapshotCacheHit()
		return snap, nil
	}
	s.mu.Unlock()

	metrics.RecordSnapshotCacheMiss()
	snap, err := s.engine.loader.Snapshot(ctx, date)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[date] = snap
	s.mu.Unlock()
	return snap, nil
}
