package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/notes/internal/app/db"
	"github.com/fsdevblog/notes/internal/app/db/mstorage"
	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/repositories"
)

var _ repositories.NoteRepository = (*NoteRepo)(nil)

// NoteRepo хранит заметки в памяти, ключом служит короткая ссылка.
type NoteRepo struct {
	s      *db.MemoryStorage
	logger *logrus.Entry
	// mu сериализует составные операции (прочитать-изменить-записать) поверх хранилища.
	mu sync.Mutex
}

func NewNoteRepo(store *db.MemoryStorage, logger *logrus.Logger) *NoteRepo {
	return &NoteRepo{
		s:      store,
		logger: logger.WithField("module", "repository/memstore/note"),
	}
}

func (n *NoteRepo) Create(_ context.Context, note *models.Note) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.s.IsExist(note.ShortURL) {
		return repositories.ErrDuplicateKey
	}

	record := *note
	record.ID = n.s.NextID()
	now := time.Now().UTC()
	record.CreatedAt = now
	record.UpdatedAt = now

	if err := mstorage.Set[models.Note](record.ShortURL, &record, n.s.MStorage); err != nil {
		return convertErrorType(err)
	}
	*note = record
	return nil
}

func (n *NoteRepo) GetByShortURL(_ context.Context, shortURL string) (*models.Note, error) {
	note, err := mstorage.Get[models.Note](shortURL, n.s.MStorage)
	if err != nil {
		if !errors.Is(err, mstorage.ErrNotFound) {
			n.logger.WithError(err).Errorf("failed to get note by short url %s", shortURL)
		}
		return nil, convertErrorType(err)
	}
	return note, nil
}

func (n *NoteRepo) GetByID(_ context.Context, id uint) (*models.Note, error) {
	for _, note := range mstorage.GetAll[models.Note](n.s.MStorage) {
		if note.ID == id {
			return &note, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (n *NoteRepo) UpdateContent(ctx context.Context, shortURL, content string) (*models.Note, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	note, err := n.GetByShortURL(ctx, shortURL)
	if err != nil {
		return nil, err
	}
	note.Content = content
	note.UpdatedAt = time.Now().UTC()

	if setErr := mstorage.Set[models.Note](shortURL, note, n.s.MStorage, mstorage.WithOverwrite()); setErr != nil {
		n.logger.WithError(setErr).Errorf("failed to update note %s", shortURL)
		return nil, convertErrorType(setErr)
	}
	return note, nil
}

func (n *NoteRepo) GetReplies(_ context.Context, parentID uint) ([]models.Note, error) {
	replies := make([]models.Note, 0)
	for _, note := range mstorage.GetAll[models.Note](n.s.MStorage) {
		if note.ParentID != nil && *note.ParentID == parentID {
			replies = append(replies, note)
		}
	}
	sort.Slice(replies, func(i, j int) bool {
		return replies[i].ID < replies[j].ID
	})
	return replies, nil
}

func (n *NoteRepo) GetLatest(_ context.Context, limit int) ([]models.Note, error) {
	notes := make([]models.Note, 0)
	for _, note := range mstorage.GetAll[models.Note](n.s.MStorage) {
		if note.ParentID == nil {
			notes = append(notes, note)
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].ID > notes[j].ID
	})
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	return notes, nil
}

func (n *NoteRepo) Delete(_ context.Context, id uint) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, note := range mstorage.GetAll[models.Note](n.s.MStorage) {
		if note.ID == id {
			n.s.Delete(note.ShortURL)
			return nil
		}
	}
	return nil
}

func (n *NoteRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	var deleted int64
	for _, note := range mstorage.GetAll[models.Note](n.s.MStorage) {
		if note.IsExpired(now) {
			n.s.Delete(note.ShortURL)
			deleted++
		}
	}
	return deleted, nil
}

// convertErrorType конвертирует ошибки хранилища в памяти в ошибки уровня репозитория.
func convertErrorType(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mstorage.ErrDuplicateKey):
		return repositories.ErrDuplicateKey
	case errors.Is(err, mstorage.ErrNotFound):
		return repositories.ErrNotFound
	default:
		return repositories.ErrUnknown
	}
}
