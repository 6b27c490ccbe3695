package utils

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// RandomShortURLLength длина случайной короткой ссылки (используется для ответов).
const RandomShortURLLength = 8

var urlPathRegex = regexp.MustCompile(`^[a-zA-Z0-9\-_]*$`)

// IsValidURLPath проверяет, что строка состоит только из латиницы, цифр, дефиса и подчеркивания.
// Пустая строка валидна, проверка на пустоту делается отдельно.
func IsValidURLPath(path string) bool {
	return urlPathRegex.MatchString(path)
}

// RandomShortURL генерирует случайный идентификатор. Коллизии не проверяются.
func RandomShortURL() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:RandomShortURLLength]
}
