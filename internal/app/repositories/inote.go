package repositories

import (
	"context"
	"time"

	"github.com/fsdevblog/notes/internal/app/models"
)

// NoteRepository описывает хранилище заметок. Истечение срока жизни репозиторий не учитывает,
// это забота сервисного слоя.
type NoteRepository interface {
	// Create сохраняет заметку, заполняя ID и CreatedAt. Занятый ShortURL дает ErrDuplicateKey.
	Create(ctx context.Context, note *models.Note) error
	// GetByShortURL находит заметку по короткой ссылке.
	GetByShortURL(ctx context.Context, shortURL string) (*models.Note, error)
	// GetByID находит заметку по идентификатору.
	GetByID(ctx context.Context, id uint) (*models.Note, error)
	// UpdateContent заменяет содержимое заметки и возвращает обновленную запись.
	UpdateContent(ctx context.Context, shortURL, content string) (*models.Note, error)
	// GetReplies возвращает ответы на заметку в порядке создания.
	GetReplies(ctx context.Context, parentID uint) ([]models.Note, error)
	// GetLatest возвращает не более limit заметок верхнего уровня, новые первыми.
	GetLatest(ctx context.Context, limit int) ([]models.Note, error)
	// Delete удаляет заметку по идентификатору.
	Delete(ctx context.Context, id uint) error
	// DeleteExpired удаляет заметки, истекшие к моменту now, и возвращает их количество.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
