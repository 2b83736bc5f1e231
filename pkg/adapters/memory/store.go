package memory

import (
	"context"
	"sync"

	"github.com/aretw0/cnftree/pkg/domain"
)

// Store implements ports.TreeStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Node
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Node),
	}
}

// Save keeps a deep copy of the tree so later mutations by the caller don't leak in.
func (s *Store) Save(ctx context.Context, key string, tree *domain.Node) error {
	copied := tree.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = copied
	return nil
}

// Load retrieves a copy of the tree from memory.
func (s *Store) Load(ctx context.Context, key string) (*domain.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.data[key]
	if !ok {
		return nil, domain.ErrTreeNotFound
	}
	return tree.Clone(), nil
}

// Delete removes the tree.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// Len returns the number of cached trees.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
