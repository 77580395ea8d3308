// Package memory provides in-process implementations of the ports interfaces.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/ports"
)

// Store implements ports.SnapshotStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*ports.Snapshot
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*ports.Snapshot),
	}
}

// Save persists a copy of snap.
func (s *Store) Save(ctx context.Context, treeID string, snap *ports.Snapshot) error {
	copied := clone(snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[treeID] = copied
	return nil
}

// Load returns a copy of the stored snapshot so callers cannot mutate the store.
func (s *Store) Load(ctx context.Context, treeID string) (*ports.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.data[treeID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	return clone(snap), nil
}

// Delete removes the snapshot.
func (s *Store) Delete(ctx context.Context, treeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, treeID)
	return nil
}

// List returns stored tree ids in sorted order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func clone(snap *ports.Snapshot) *ports.Snapshot {
	c := *snap
	c.Entries = append(c.Entries[:0:0], snap.Entries...)
	return &c
}
