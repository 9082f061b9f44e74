package ledger

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"opencatalogi/internal/notifications"
	"opencatalogi/pkg/platform/sentinel"
)

// InMemoryStore is a map-backed ledger for unit tests and development.
type InMemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*notifications.FailedNotification
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make(map[uuid.UUID]*notifications.FailedNotification)}
}

func (s *InMemoryStore) Append(_ context.Context, fn *notifications.FailedNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[fn.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *fn
	s.entries[fn.ID] = &cp
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id uuid.UUID) (*notifications.FailedNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn, ok := s.entries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *fn
	return &cp, nil
}

func (s *InMemoryStore) List(_ context.Context, kanaal notifications.Kanaal) ([]*notifications.FailedNotification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*notifications.FailedNotification
	for _, fn := range s.entries {
		if kanaal != "" && fn.Kanaal != kanaal {
			continue
		}
		cp := *fn
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LoggedAt.Before(out[j].LoggedAt) })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func (s *InMemoryStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for id, fn := range s.entries {
		if fn.LoggedAt.Before(cutoff) {
			delete(s.entries, id)
			n++
		}
	}
	return n, nil
}
