package history

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/notes/internal/client/kv"
)

func TestHistory_Append(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	h := New(kv.NewMemory(), func() time.Time { return now })

	appended, err := h.Append(ctx, "note", "<p>a</p>")
	require.NoError(t, err)
	assert.True(t, appended)

	appended, err = h.Append(ctx, "note", "<p>a</p>")
	require.NoError(t, err)
	assert.False(t, appended)

	now = now.Add(time.Minute)
	appended, err = h.Append(ctx, "note", "<p>b</p>")
	require.NoError(t, err)
	assert.True(t, appended)

	// не подряд идущий повтор допустим
	appended, err = h.Append(ctx, "note", "<p>a</p>")
	require.NoError(t, err)
	assert.True(t, appended)

	versions, err := h.List(ctx, "note")
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, "<p>a</p>", versions[0].Content)
	assert.Equal(t, "<p>b</p>", versions[1].Content)
	assert.Equal(t, "<p>a</p>", versions[2].Content)
	assert.Equal(t, now, versions[1].SavedAt)
}

func TestHistory_OnePerDistinctSave(t *testing.T) {
	ctx := context.Background()
	h := New(kv.NewMemory(), nil)

	const saves = 20
	for i := range saves {
		_, err := h.Append(ctx, "n", gofakeit.LoremIpsumSentence(3)+string(rune('a'+i)))
		require.NoError(t, err)
	}
	versions, err := h.List(ctx, "n")
	require.NoError(t, err)
	assert.Len(t, versions, saves)
}

func TestHistory_PerShortURLAndGet(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	h := New(store, nil)

	_, err := h.Append(ctx, "first", "1")
	require.NoError(t, err)
	_, err = h.Append(ctx, "second", "2")
	require.NoError(t, err)

	v, err := h.Get(ctx, "first", 0)
	require.NoError(t, err)
	assert.Equal(t, "1", v.Content)

	_, err = h.Get(ctx, "first", 1)
	assert.ErrorIs(t, err, ErrVersionNotFound)
	_, err = h.Get(ctx, "missing", 0)
	assert.ErrorIs(t, err, ErrVersionNotFound)

	_, ok, err := store.Get(ctx, "notes_app_versions_second")
	require.NoError(t, err)
	assert.True(t, ok)
}
