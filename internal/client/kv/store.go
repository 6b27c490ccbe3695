// Package kv локальное хранилище ключ/значение профиля клиента (аналог localStorage браузера).
package kv

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Store строковое хранилище ключ/значение. Операции не атомарны между процессами,
// чтение-изменение-запись из двух процессов может потерять одно из изменений.
type Store interface {
	// Get возвращает значение и признак его наличия.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set записывает значение, перезаписывая существующее.
	Set(ctx context.Context, key, value string) error
}

// GetJSON читает и декодирует json значение. Отсутствие ключа дает нулевое значение и false.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool, error) {
	var result T
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return result, false, err
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return result, false, errors.Wrapf(err, "failed to unmarshal json by key `%s`", key)
	}
	return result, true, nil
}

// SetJSON кодирует значение в json и записывает его.
func SetJSON[T any](ctx context.Context, s Store, key string, val T) error {
	raw, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal json for key `%s`", key)
	}
	return s.Set(ctx, key, string(raw))
}
