// Package identity псевдоним пользователя профиля и обертка авторства в html заметки.
//
// Псевдоним чисто косметический: сервер его не проверяет, и права на редактирование,
// вычисленные по нему, не являются защитой.
package identity

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"

	"github.com/fsdevblog/notes/internal/client/kv"
)

// StorageKey ключ хранения псевдонима в профиле.
const StorageKey = "notes_app_user_identity"

// Identity псевдоним и цвет автора.
type Identity struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (i Identity) complete() bool {
	return i.Name != "" && i.Color != ""
}

// Random генерирует случайный псевдоним вида "Brave Fox".
func Random() Identity {
	return Identity{
		Name:  titleWords(gofakeit.AdjectiveDescriptive()) + " " + titleWords(gofakeit.Animal()),
		Color: gofakeit.HexColor(),
	}
}

// GetOrCreate возвращает сохраненный псевдоним, при первом вызове генерирует и сохраняет его.
// Значение, которое не удалось разобрать, заменяется новым. Ошибка чтения хранилища
// возвращается как есть: перезапись псевдонима лишила бы автора прав на его заметки.
func GetOrCreate(ctx context.Context, store kv.Store, generate func() Identity) (Identity, error) {
	raw, ok, err := store.Get(ctx, StorageKey)
	if err != nil {
		return Identity{}, errors.Wrap(err, "load identity")
	}
	if ok {
		var stored Identity
		if json.Unmarshal([]byte(raw), &stored) == nil && stored.complete() {
			return stored, nil
		}
	}

	if generate == nil {
		generate = Random
	}
	created := generate()
	if err := kv.SetJSON(ctx, store, StorageKey, created); err != nil {
		return Identity{}, errors.Wrap(err, "save identity")
	}
	return created, nil
}

// titleWords делает заглавной первую букву каждого слова.
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
