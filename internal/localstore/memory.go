package localstore

import (
	"context"
	"sync"
)

// MemoryStore is the in-memory Store used by tests and ephemeral runs.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: map[string]int{}}
}

func (s *MemoryStore) Read(_ context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.items))
	for k, v := range s.items {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, items map[string]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[string]int, len(items))
	for k, v := range items {
		s.items[k] = v
	}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = map[string]int{}
	return nil
}
