package session

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tutorarc/backend/internal/domain"
)

// MemoryStore keeps live sessions in process memory. Ids come from an
// atomic counter, so they stay strictly increasing under concurrent
// creates. Used when no database is configured, and in tests.
type MemoryStore struct {
	nextID atomic.Int64

	mu   sync.RWMutex
	rows map[int64]domain.LiveSession
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[int64]domain.LiveSession)}
}

func (s *MemoryStore) Create(_ context.Context, userURL string) (domain.LiveSession, error) {
	now := time.Now().UTC()
	row := domain.LiveSession{
		ID:        s.nextID.Add(1),
		UserURL:   userURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.mu.Lock()
	s.rows[row.ID] = row
	s.mu.Unlock()
	return row, nil
}

func (s *MemoryStore) List(_ context.Context) ([]domain.LiveSession, error) {
	s.mu.RLock()
	out := make([]domain.LiveSession, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id int64) (domain.LiveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.LiveSession{}, ErrNotFound
	}
	return row, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, userURL string) (domain.LiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.LiveSession{}, ErrNotFound
	}
	row.UserURL = userURL
	row.UpdatedAt = time.Now().UTC()
	s.rows[id] = row
	return row, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) (domain.LiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return domain.LiveSession{}, ErrNotFound
	}
	delete(s.rows, id)
	return row, nil
}

func (s *MemoryStore) Ping(_ context.Context) error { return nil }
