package kv

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

var _ Store = (*SQLite)(nil)

type entry struct {
	Key       string `gorm:"column:kv_key;primaryKey;size:255"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string {
	return "kv_entries"
}

// SQLite хранилище профиля в файле sqlite.
type SQLite struct {
	db *gorm.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open profile store `%s`", path)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, errors.Wrap(err, "migrate profile store")
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, bool, error) {
	var e entry
	if err := s.db.WithContext(ctx).Where("kv_key = ?", key).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, errors.Wrapf(err, "get key `%s`", key)
	}
	return e.Value, true, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	e := entry{Key: key, Value: value}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "kv_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&e).Error
	if err != nil {
		return errors.Wrapf(err, "set key `%s`", key)
	}
	return nil
}

// Close закрывает соединение с файлом профиля.
func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db")
	}
	return sqlDB.Close() //nolint:wrapcheck
}
