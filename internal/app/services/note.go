package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/apperrs"
	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/repositories"
	"github.com/fsdevblog/notes/internal/app/utils"
)

// LatestNotesLimit сколько заметок отдает главная страница API.
const LatestNotesLimit = 10

// quillClassRegex классы форматирования, которые проставляет редактор (выравнивание, отступы и т.д.).
var quillClassRegex = regexp.MustCompile(`^(ql-[a-z0-9-]+)(\s+ql-[a-z0-9-]+)*$`)

// NoteServiceOptions настройки сервиса.
type NoteServiceOptions struct {
	Now func() time.Time
}

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) func(*NoteServiceOptions) {
	return func(o *NoteServiceOptions) {
		o.Now = now
	}
}

// noteService сервис работает с хранилищем в контексте таблицы `notes`.
type noteService struct {
	noteRepo repositories.NoteRepository
	policy   *bluemonday.Policy
	now      func() time.Time
	logger   *logrus.Entry
}

func NewNoteService(
	noteRepo repositories.NoteRepository,
	logger *logrus.Logger,
	opts ...func(*NoteServiceOptions),
) NoteService {
	options := NoteServiceOptions{Now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}
	return &noteService{
		noteRepo: noteRepo,
		policy:   newContentPolicy(),
		now:      options.Now,
		logger:   logger.WithField("module", "services/note"),
	}
}

// newContentPolicy политика очистки html. Атрибуты авторства нужны клиенту для обертки автора.
func newContentPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("data-author", "data-color").OnElements("div")
	p.AllowAttrs("class").Matching(quillClassRegex).Globally()
	return p
}

func (n *noteService) Create(ctx context.Context, args CreateNoteArgs) (*models.Note, error) {
	shortURL := strings.TrimSpace(args.ShortURL)
	if !isAcceptableShortURL(shortURL) {
		return nil, apperrs.ErrInvalidShortURL
	}

	if args.ParentID != nil {
		if _, err := n.getAlive(ctx, func() (*models.Note, error) {
			return n.noteRepo.GetByID(ctx, *args.ParentID)
		}); err != nil {
			if errors.Is(err, apperrs.ErrRecordNotFound) {
				return nil, apperrs.ErrParentNotFound
			}
			return nil, err
		}
	}

	// Истекшая, но еще не вычищенная заметка не должна блокировать ссылку.
	existing, existingErr := n.noteRepo.GetByShortURL(ctx, shortURL)
	switch {
	case existingErr == nil && !existing.IsExpired(n.now()):
		return nil, apperrs.ErrURLTaken
	case existingErr == nil:
		if err := n.noteRepo.Delete(ctx, existing.ID); err != nil {
			return nil, apperrs.ErrInternal
		}
	case !errors.Is(existingErr, repositories.ErrNotFound):
		return nil, apperrs.ErrInternal
	}

	note := models.Note{
		ShortURL: shortURL,
		Content:  n.policy.Sanitize(args.Content),
		ParentID: args.ParentID,
	}
	if args.ExpiresAt != nil {
		expiresAt := args.ExpiresAt.UTC()
		note.ExpiresAt = &expiresAt
	}

	if err := n.noteRepo.Create(ctx, &note); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, apperrs.ErrURLTaken
		}
		n.logger.WithError(err).Errorf("failed to create note `%s`", shortURL)
		return nil, apperrs.ErrInternal
	}
	return &note, nil
}

func (n *noteService) GetByShortURL(ctx context.Context, shortURL string) (*models.Note, error) {
	return n.getAlive(ctx, func() (*models.Note, error) {
		return n.noteRepo.GetByShortURL(ctx, shortURL)
	})
}

func (n *noteService) IsAvailable(ctx context.Context, shortURL string) (bool, error) {
	if !isAcceptableShortURL(shortURL) {
		return false, nil
	}
	_, err := n.GetByShortURL(ctx, shortURL)
	if err == nil {
		return false, nil
	}
	if errors.Is(err, apperrs.ErrRecordNotFound) {
		return true, nil
	}
	return false, err
}

func (n *noteService) Update(ctx context.Context, shortURL, content string) (*models.Note, error) {
	if _, err := n.GetByShortURL(ctx, shortURL); err != nil {
		return nil, err
	}
	note, err := n.noteRepo.UpdateContent(ctx, shortURL, n.policy.Sanitize(content))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrs.ErrRecordNotFound
		}
		return nil, apperrs.ErrInternal
	}
	return note, nil
}

func (n *noteService) GetThread(ctx context.Context, noteID uint) ([]models.Note, error) {
	replies, err := n.noteRepo.GetReplies(ctx, noteID)
	if err != nil {
		return nil, apperrs.ErrInternal
	}
	return n.filterAlive(replies), nil
}

func (n *noteService) GetLatest(ctx context.Context) ([]models.Note, error) {
	notes, err := n.noteRepo.GetLatest(ctx, LatestNotesLimit)
	if err != nil {
		return nil, apperrs.ErrInternal
	}
	return n.filterAlive(notes), nil
}

func (n *noteService) DeleteExpired(ctx context.Context) (int64, error) {
	deleted, err := n.noteRepo.DeleteExpired(ctx, n.now().UTC())
	if err != nil {
		return 0, errors.Wrap(err, "delete expired notes")
	}
	return deleted, nil
}

// getAlive вспомогательный метод, переводит отсутствие и истечение срока в ErrRecordNotFound.
func (n *noteService) getAlive(ctx context.Context, get func() (*models.Note, error)) (*models.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "get note")
	}
	note, err := get()
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrs.ErrRecordNotFound
		}
		return nil, apperrs.ErrInternal
	}
	if note.IsExpired(n.now()) {
		return nil, apperrs.ErrRecordNotFound
	}
	return note, nil
}

func (n *noteService) filterAlive(notes []models.Note) []models.Note {
	now := n.now()
	alive := make([]models.Note, 0, len(notes))
	for _, note := range notes {
		if !note.IsExpired(now) {
			alive = append(alive, note)
		}
	}
	return alive
}

func isAcceptableShortURL(shortURL string) bool {
	return shortURL != "" && len(shortURL) <= models.ShortURLMaxLength && utils.IsValidURLPath(shortURL)
}
