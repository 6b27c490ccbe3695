package ownership

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/notes/internal/client/kv"
)

func TestOwnedURLs(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	owned := New(store)

	ok, err := owned.Contains(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, owned.Add(ctx, "a"))
	require.NoError(t, owned.Add(ctx, "b"))
	require.NoError(t, owned.Add(ctx, "a"))

	list, err := owned.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, list)

	ok, err = New(store).Contains(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	raw, _, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, raw)
}

func TestOwnedURLs_Corrupted(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, "not json"))

	_, err := New(store).Contains(ctx, "a")
	assert.Error(t, err)
}
