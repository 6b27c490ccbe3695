package mstorage

import (
	"sync"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// MStorage потокобезопасное хранилище в памяти. Значения хранятся сериализованными в json,
// чтобы наружу никогда не отдавались ссылки на внутренние данные.
type MStorage struct {
	data   map[string][]byte
	lastID uint
	m      sync.RWMutex
}

func NewMemStorage() *MStorage {
	return &MStorage{
		data: make(map[string][]byte),
	}
}

func (m *MStorage) Len() int {
	m.m.RLock()
	defer m.m.RUnlock()

	return len(m.data)
}

// NextID возвращает очередной автоинкрементный идентификатор. Удаление записей не сбрасывает счетчик.
func (m *MStorage) NextID() uint {
	m.m.Lock()
	defer m.m.Unlock()

	m.lastID++
	return m.lastID
}

func (m *MStorage) IsExist(key string) bool {
	m.m.RLock()
	defer m.m.RUnlock()

	_, ok := m.data[key]
	return ok
}

// Delete удаляет запись. Отсутствие ключа ошибкой не считается.
func (m *MStorage) Delete(key string) {
	m.m.Lock()
	defer m.m.Unlock()

	delete(m.data, key)
}

func Get[T any](key string, m *MStorage) (*T, error) {
	m.m.RLock()
	defer m.m.RUnlock()

	val, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	var result T
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal json by key `%s`", key)
	}
	return &result, nil
}

// SetOptions настройки записи.
type SetOptions struct {
	overwrite bool
}

// WithOverwrite разрешает перезапись существующего ключа.
func WithOverwrite() func(*SetOptions) {
	return func(o *SetOptions) {
		o.overwrite = true
	}
}

// Set сохраняет пару ключ/значение. Без WithOverwrite ключ обязан быть уникальным, иначе вернется ErrDuplicateKey.
func Set[T any](key string, val *T, m *MStorage, opts ...func(*SetOptions)) error {
	var options SetOptions
	for _, opt := range opts {
		opt(&options)
	}

	bytes, err := json.Marshal(val)
	if err != nil {
		return errors.Wrapf(err, "failed to marshal json for object `%+v`", val)
	}

	m.m.Lock()
	defer m.m.Unlock()

	if _, ok := m.data[key]; ok && !options.overwrite {
		return ErrDuplicateKey
	}
	m.data[key] = bytes
	return nil
}

func GetAll[T any](m *MStorage) []T {
	m.m.RLock()
	defer m.m.RUnlock()

	var result = make([]T, 0, len(m.data))

	for _, bytes := range m.data {
		var val T
		if err := json.Unmarshal(bytes, &val); err != nil {
			logrus.WithError(err).Errorf("failed to unmarshal json for object `%+v`", val)
			continue
		}
		result = append(result, val)
	}
	return result
}
