package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// GormPinger проверяет соединение с sqlite.
type GormPinger struct {
	db *gorm.DB
}

func NewGormPinger(db *gorm.DB) *GormPinger {
	return &GormPinger{db: db}
}

func (g *GormPinger) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx) //nolint:wrapcheck
}

// Ping хранилище в памяти доступно всегда.
func (m *MemoryStorage) Ping(_ context.Context) error {
	return nil
}
