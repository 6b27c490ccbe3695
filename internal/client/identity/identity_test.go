package identity

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsdevblog/notes/internal/client/kv"
)

func TestGetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	calls := 0
	generate := func() Identity {
		calls++
		return Identity{Name: "Brave Fox", Color: "#abcdef"}
	}

	first, err := GetOrCreate(ctx, store, generate)
	require.NoError(t, err)
	second, err := GetOrCreate(ctx, store, generate)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	raw, ok, err := store.Get(ctx, StorageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Brave Fox","color":"#abcdef"}`, raw)
}

func TestGetOrCreate_DefaultGenerator(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	first, err := GetOrCreate(ctx, store, nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(strings.Fields(first.Name)), 2)
	assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, first.Color)

	for range 5 {
		again, err := GetOrCreate(ctx, store, nil)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGetOrCreate_ReplacesCorrupted(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, "{broken"))

	got, err := GetOrCreate(ctx, store, func() Identity { return Identity{Name: "Calm Owl", Color: "#123456"} })
	require.NoError(t, err)
	assert.Equal(t, Identity{Name: "Calm Owl", Color: "#123456"}, got)
}

// failingStore отдает ошибку на очередное чтение, если failNext выставлен.
type failingStore struct {
	*kv.Memory
	failNext bool
}

var errStoreLocked = errors.New("database is locked")

func (f *failingStore) Get(ctx context.Context, key string) (string, bool, error) {
	if f.failNext {
		f.failNext = false
		return "", false, errStoreLocked
	}
	return f.Memory.Get(ctx, key)
}

func TestGetOrCreate_StoreErrorKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	store := &failingStore{Memory: kv.NewMemory()}

	first, err := GetOrCreate(ctx, store, func() Identity { return Identity{Name: "Brave Fox", Color: "#abcdef"} })
	require.NoError(t, err)

	store.failNext = true
	other := func() Identity { return Identity{Name: "Calm Owl", Color: "#123456"} }
	_, err = GetOrCreate(ctx, store, other)
	require.ErrorIs(t, err, errStoreLocked)

	third, err := GetOrCreate(ctx, store, other)
	require.NoError(t, err)
	assert.Equal(t, first, third)
}

func TestGetOrCreate_ReplacesIncomplete(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, StorageKey, `{"name":"Brave Fox"}`))

	got, err := GetOrCreate(ctx, store, func() Identity { return Identity{Name: "Calm Owl", Color: "#123456"} })
	require.NoError(t, err)
	assert.Equal(t, "Calm Owl", got.Name)
}

func TestRandom(t *testing.T) {
	for range 20 {
		id := Random()
		words := strings.Fields(id.Name)
		require.GreaterOrEqual(t, len(words), 2)
		for _, w := range words {
			assert.Equal(t, strings.ToUpper(w[:1]), w[:1])
		}
		assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, id.Color)
	}
}

func TestWrapParse_RoundTrip(t *testing.T) {
	id := Identity{Name: "Brave Fox", Color: "#abcdef"}
	inner := []string{
		"<p>Hello <b>world</b></p>",
		"<p>one</p><div>nested <div>deeper</div></div><p>two</p>",
		"plain text &amp; entities",
		"<p><br></p><img src=\"x.png\">",
		"",
		"a</div>b",
		"<div>x",
		"<p>ok</p></div></div>tail",
		"  spaced  ",
	}
	for _, content := range inner {
		got := Parse(Wrap(content, id))
		assert.Equal(t, "Brave Fox", got.Author)
		assert.Equal(t, "#abcdef", got.Color)
		assert.Equal(t, content, got.HTML)
	}
}

func TestWrap_EscapesAttributes(t *testing.T) {
	id := Identity{Name: `Bob "The" <Fox>`, Color: "#000"}
	wrapped := Wrap("<p>x</p>", id)

	assert.NotContains(t, wrapped, `"The"`)
	got := Parse(wrapped)
	assert.Equal(t, id.Name, got.Author)
	assert.Equal(t, "<p>x</p>", got.HTML)
}

func TestParse_WithoutWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "paragraph", content: "<p>hello</p>"},
		{name: "plain div", content: `<div class="x">hello</div>`},
		{name: "text first", content: `text <div data-author="A">x</div>`},
		{name: "empty", content: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.content)
			assert.Empty(t, got.Author)
			assert.Empty(t, got.Color)
			assert.Equal(t, tt.content, got.HTML)
		})
	}
}

func TestParse_Tolerance(t *testing.T) {
	got := Parse("\n  <div data-author=\"Kind Otter\" data-color=\"#111\"><p>x</p></div>\n")
	assert.Equal(t, "Kind Otter", got.Author)
	assert.Equal(t, "<p>x</p>", got.HTML)

	// после обертки идет содержимое: граница по вложенности
	got = Parse(`<div data-author="Kind Otter"><div>x</div></div><p>after</p>`)
	assert.Equal(t, "Kind Otter", got.Author)
	assert.Equal(t, "<div>x</div>", got.HTML)

	got = Parse(`<div data-author="Kind Otter"><p>unclosed`)
	assert.Equal(t, "Kind Otter", got.Author)
	assert.Empty(t, got.Color)
	assert.Equal(t, "<p>unclosed", got.HTML)
}
