package api

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrConflict короткая ссылка уже занята (409).
	ErrConflict = errors.New("short url is already taken")
	// ErrNotFound заметка не найдена или истекла (404).
	ErrNotFound = errors.New("note not found")
	// ErrUnexpectedStatus сервер ответил неожиданным статусом.
	ErrUnexpectedStatus = errors.New("unexpected response status")
)

// DecodeError ответ сервера не удалось разобрать или он не прошел проверку.
type DecodeError struct {
	Endpoint string
	Err      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s response: %v", e.Endpoint, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
