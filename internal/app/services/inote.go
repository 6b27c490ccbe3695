package services

import (
	"context"
	"time"

	"github.com/fsdevblog/notes/internal/app/models"
)

// CreateNoteArgs параметры создания заметки.
type CreateNoteArgs struct {
	ShortURL  string
	Content   string
	ExpiresAt *time.Time
	ParentID  *uint
}

// NoteService бизнес-логика заметок. Истекшие заметки для всех методов считаются отсутствующими.
type NoteService interface {
	Create(ctx context.Context, args CreateNoteArgs) (*models.Note, error)
	GetByShortURL(ctx context.Context, shortURL string) (*models.Note, error)
	IsAvailable(ctx context.Context, shortURL string) (bool, error)
	Update(ctx context.Context, shortURL, content string) (*models.Note, error)
	GetThread(ctx context.Context, noteID uint) ([]models.Note, error)
	GetLatest(ctx context.Context) ([]models.Note, error)
	DeleteExpired(ctx context.Context) (int64, error)
}
