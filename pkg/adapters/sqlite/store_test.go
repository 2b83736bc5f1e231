package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/cnftree/pkg/adapters/sqlite"
	"github.com/aretw0/cnftree/pkg/domain"
	"github.com/aretw0/cnftree/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_Contract(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer store.Close()

	ports.RunTreeStoreContract(t, store)
}

func TestSQLiteStore_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "trees.db")
	ctx := context.Background()
	tree := domain.NewNode(domain.Exists, domain.Leaf("p"), domain.NewNode(domain.And))

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "k1", tree))
	require.NoError(t, store.Close())

	// Reopen: data survives.
	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer store.Close()

	loaded, err := store.Load(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, tree.Equal(loaded))

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"k1"}, keys)
}
