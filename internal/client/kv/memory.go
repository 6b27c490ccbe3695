package kv

import (
	"context"

	"github.com/pkg/errors"

	"github.com/fsdevblog/notes/internal/app/db/mstorage"
)

var _ Store = (*Memory)(nil)

// Memory хранилище в памяти, используется в тестах и для временных профилей.
type Memory struct {
	s *mstorage.MStorage
}

func NewMemory() *Memory {
	return &Memory{s: mstorage.NewMemStorage()}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	val, err := mstorage.Get[string](key, m.s)
	if err != nil {
		if errors.Is(err, mstorage.ErrNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return *val, true, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	return mstorage.Set[string](key, &value, m.s, mstorage.WithOverwrite())
}
