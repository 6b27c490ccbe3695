package sqlite

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fsdevblog/notes/internal/app/models"
	"github.com/fsdevblog/notes/internal/app/repositories"
)

var (
	_ repositories.NoteRepository          = (*NoteRepo)(nil)
	_ repositories.BaseRepositoryInterface = (*NoteRepo)(nil)
)

type NoteRepo struct {
	*BaseRepository
	logger *logrus.Entry
}

func NewNoteRepo(db *gorm.DB, logger *logrus.Logger) *NoteRepo {
	return &NoteRepo{
		BaseRepository: &BaseRepository{db: db},
		logger:         logger.WithField("module", "repository/sqlite/note"),
	}
}

func (n *NoteRepo) Create(ctx context.Context, note *models.Note) error {
	if err := n.GetDB().WithContext(ctx).Create(note).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return repositories.ErrDuplicateKey
		}
		n.logger.WithError(err).Errorf("failed to create note `%s`", note.ShortURL)
		return repositories.ErrUnknown
	}
	return nil
}

func (n *NoteRepo) GetByShortURL(ctx context.Context, shortURL string) (*models.Note, error) {
	var note models.Note
	if err := n.GetDB().WithContext(ctx).Where("short_url = ?", shortURL).First(&note).Error; err != nil {
		return nil, n.handleReadErr(err, "failed to get note by short url %s", shortURL)
	}
	return &note, nil
}

func (n *NoteRepo) GetByID(ctx context.Context, id uint) (*models.Note, error) {
	var note models.Note
	if err := n.GetDB().WithContext(ctx).First(&note, id).Error; err != nil {
		return nil, n.handleReadErr(err, "failed to get note by id %d", id)
	}
	return &note, nil
}

// UpdateContent чтение и запись выполняются в одной транзакции, чтобы не обновить уже удаленную заметку.
func (n *NoteRepo) UpdateContent(ctx context.Context, shortURL, content string) (*models.Note, error) {
	var note models.Note
	err := n.ExecuteTransaction(func(tx *gorm.DB) error {
		tx = tx.WithContext(ctx)
		if err := tx.Where("short_url = ?", shortURL).First(&note).Error; err != nil {
			return err //nolint:wrapcheck
		}
		note.Content = content
		return tx.Model(&note).Update("content", content).Error
	})
	if err != nil {
		return nil, n.handleReadErr(err, "failed to update note %s", shortURL)
	}
	return &note, nil
}

func (n *NoteRepo) GetReplies(ctx context.Context, parentID uint) ([]models.Note, error) {
	var notes []models.Note
	err := n.GetDB().WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&notes).Error
	if err != nil {
		n.logger.WithError(err).Errorf("failed to get replies for note %d", parentID)
		return nil, repositories.ErrUnknown
	}
	return notes, nil
}

func (n *NoteRepo) GetLatest(ctx context.Context, limit int) ([]models.Note, error) {
	var notes []models.Note
	err := n.GetDB().WithContext(ctx).
		Where("parent_id IS NULL").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&notes).Error
	if err != nil {
		n.logger.WithError(err).Error("failed to get latest notes")
		return nil, repositories.ErrUnknown
	}
	return notes, nil
}

func (n *NoteRepo) Delete(ctx context.Context, id uint) error {
	if err := n.GetDB().WithContext(ctx).Delete(&models.Note{}, id).Error; err != nil {
		n.logger.WithError(err).Errorf("failed to delete note %d", id)
		return repositories.ErrUnknown
	}
	return nil
}

func (n *NoteRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := n.GetDB().WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", now).
		Delete(&models.Note{})
	if res.Error != nil {
		n.logger.WithError(res.Error).Error("failed to delete expired notes")
		return 0, repositories.ErrUnknown
	}
	return res.RowsAffected, nil
}

func (n *NoteRepo) handleReadErr(err error, format string, args ...any) error {
	converted := convertErrorType(err)
	if !errors.Is(converted, repositories.ErrNotFound) {
		n.logger.WithError(err).Errorf(format, args...)
	}
	return converted
}

// convertErrorType конвертирует ошибки gorm в ошибки уровня репозитория.
func convertErrorType(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repositories.ErrDuplicateKey
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	default:
		return repositories.ErrUnknown
	}
}
