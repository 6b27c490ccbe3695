// Package history локальная история версий заметок. История только растет и никогда
// не сверяется с сервером.
package history

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/fsdevblog/notes/internal/client/kv"
)

// KeyPrefix префикс ключа истории, к нему добавляется короткая ссылка.
const KeyPrefix = "notes_app_versions_"

var ErrVersionNotFound = errors.New("version not found")

// Version снимок html содержимого.
type Version struct {
	Content string    `json:"content"`
	SavedAt time.Time `json:"saved_at"`
}

type History struct {
	store kv.Store
	now   func() time.Time
}

func New(store kv.Store, now func() time.Time) *History {
	if now == nil {
		now = time.Now
	}
	return &History{store: store, now: now}
}

// Key ключ хранения истории заметки.
func Key(shortURL string) string {
	return KeyPrefix + shortURL
}

// List возвращает версии, новые последними.
func (h *History) List(ctx context.Context, shortURL string) ([]Version, error) {
	versions, _, err := kv.GetJSON[[]Version](ctx, h.store, Key(shortURL))
	if err != nil {
		return nil, errors.Wrapf(err, "load versions of `%s`", shortURL)
	}
	return versions, nil
}

// Append добавляет снимок в конец. Снимок, совпадающий с последним, не добавляется.
func (h *History) Append(ctx context.Context, shortURL, content string) (bool, error) {
	versions, err := h.List(ctx, shortURL)
	if err != nil {
		return false, err
	}
	if n := len(versions); n > 0 && versions[n-1].Content == content {
		return false, nil
	}
	versions = append(versions, Version{Content: content, SavedAt: h.now().UTC()})
	if err := kv.SetJSON(ctx, h.store, Key(shortURL), versions); err != nil {
		return false, errors.Wrapf(err, "save versions of `%s`", shortURL)
	}
	return true, nil
}

// Get возвращает версию по индексу (0 самая старая).
func (h *History) Get(ctx context.Context, shortURL string, index int) (Version, error) {
	versions, err := h.List(ctx, shortURL)
	if err != nil {
		return Version{}, err
	}
	if index < 0 || index >= len(versions) {
		return Version{}, errors.Wrapf(ErrVersionNotFound, "index %d of %d", index, len(versions))
	}
	return versions[index], nil
}
