// Package ownership список коротких ссылок, созданных из текущего профиля.
package ownership

import (
	"context"
	"slices"

	"github.com/pkg/errors"

	"github.com/fsdevblog/notes/internal/client/kv"
)

// StorageKey ключ хранения списка в профиле.
const StorageKey = "notes_app_owned_urls"

type OwnedURLs struct {
	store kv.Store
}

func New(store kv.Store) *OwnedURLs {
	return &OwnedURLs{store: store}
}

// List возвращает ссылки в порядке добавления.
func (o *OwnedURLs) List(ctx context.Context) ([]string, error) {
	urls, _, err := kv.GetJSON[[]string](ctx, o.store, StorageKey)
	if err != nil {
		return nil, errors.Wrap(err, "load owned urls")
	}
	return urls, nil
}

// Add добавляет ссылку, повторное добавление ничего не меняет.
func (o *OwnedURLs) Add(ctx context.Context, shortURL string) error {
	urls, err := o.List(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(urls, shortURL) {
		return nil
	}
	return kv.SetJSON(ctx, o.store, StorageKey, append(urls, shortURL))
}

func (o *OwnedURLs) Contains(ctx context.Context, shortURL string) (bool, error) {
	urls, err := o.List(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(urls, shortURL), nil
}
