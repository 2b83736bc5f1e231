package ports

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunTreeStoreContract runs a suite of tests to verify that a TreeStore implementation
// adheres to the defined interface contract.
func RunTreeStoreContract(t *testing.T, store TreeStore) {
	ctx := context.Background()
	key := "contract-test-" + time.Now().Format("20060102150405")

	tree := domain.NewNode(domain.Exists,
		domain.Leaf("p"),
		domain.Leaf("f"),
		domain.NewNode(domain.And,
			domain.NewNode(domain.ForAll,
				domain.Leaf("X"),
				domain.NewNode(domain.Or,
					domain.NewNode(domain.Not, domain.NewNode("p", domain.NewNode("f", domain.Leaf("X")))),
					domain.Leaf("$false"),
				),
			),
		),
	)

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, key, tree)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, tree.Equal(loaded), "loaded tree differs: got %s, want %s", loaded, tree)
	})

	t.Run("Overwrite", func(t *testing.T) {
		other := domain.NewNode(domain.Exists, domain.NewNode(domain.And))
		require.NoError(t, store.Save(ctx, key, other))

		loaded, err := store.Load(ctx, key)
		require.NoError(t, err)
		assert.True(t, other.Equal(loaded), "expected overwritten tree, got %s", loaded)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+key)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, key, tree))

		err := store.Delete(ctx, key)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, key)
		assert.ErrorIs(t, err, domain.ErrTreeNotFound, "Load after Delete should return ErrTreeNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice should not fail")
	})

	t.Run("Concurrent Save", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Save(ctx, key+"-concurrent", tree))
			}()
		}
		wg.Wait()

		loaded, err := store.Load(ctx, key+"-concurrent")
		require.NoError(t, err)
		assert.True(t, tree.Equal(loaded))
		_ = store.Delete(ctx, key+"-concurrent")
	})
}
