package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps snapshots in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]Snapshot
	latest    map[string]uuid.UUID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		snapshots: make(map[uuid.UUID]Snapshot),
		latest:    make(map[string]uuid.UUID),
	}
}

func (m *MemoryStore) Save(_ context.Context, s *Snapshot) error {
	s.stamp()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[s.ID] = s.clone()
	m.latest[s.Name] = s.ID
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.snapshots[id]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return s.clone(), nil
}

func (m *MemoryStore) Latest(ctx context.Context, name string) (Snapshot, error) {
	m.mu.RLock()
	id, ok := m.latest[name]
	m.mu.RUnlock()
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return m.Get(ctx, id)
}

func (m *MemoryStore) Close() error { return nil }
