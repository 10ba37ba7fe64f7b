package index

import (
	"context"
	"sync"
	"time"

	domindex "github.com/techlog/postguard/internal/domain/index"
)

// MemoryStore keeps the content index in memory. Saved indexes are cloned so
// callers cannot mutate stored state after Save returns.
type MemoryStore struct {
	mu    sync.RWMutex
	index *domindex.Index
	now   func() time.Time
	saves int
}

// NewMemoryStore creates an in-memory store. A nil seed starts empty.
func NewMemoryStore(seed *domindex.Index) *MemoryStore {
	m := &MemoryStore{now: time.Now}
	if seed != nil {
		c := seed.Clone()
		m.index = &c
	}
	return m
}

// Load returns a copy of the stored index.
func (m *MemoryStore) Load(_ context.Context) (domindex.Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.index == nil {
		return domindex.Empty(m.now().Format(domindex.DateLayout)), nil
	}
	return m.index.Clone(), nil
}

// Save stamps last_updated and stores a copy of x.
func (m *MemoryStore) Save(_ context.Context, x *domindex.Index) error {
	x.Touch(m.now().Format(domindex.DateLayout))
	c := x.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.index = &c
	m.saves++
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// Saves returns how many times Save was called.
func (m *MemoryStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}
