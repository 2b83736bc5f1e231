package ports

import (
	"context"

	"github.com/aretw0/cnftree/pkg/domain"
)

// TreeStore defines the interface for caching and persisting transformed trees.
type TreeStore interface {
	// Save stores the tree under key, replacing any previous tree.
	Save(ctx context.Context, key string, tree *domain.Node) error

	// Load retrieves the tree stored under key.
	// Returns domain.ErrTreeNotFound if there is none.
	Load(ctx context.Context, key string) (*domain.Node, error)

	// Delete removes the tree stored under key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
