package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fsdevblog/notes/internal/app/models"
)

func NewSQLite(dbPath string) (*gorm.DB, error) {
	conn, connErr := ConnectSQLite(dbPath)
	if connErr != nil {
		return nil, fmt.Errorf("init database error: %w", connErr)
	}
	if migrateErr := MigrateSQLite(conn); migrateErr != nil {
		return nil, fmt.Errorf("migrate database error: %w", migrateErr)
	}
	return conn, nil
}

// ConnectSQLite открывает соединение. TranslateError нужен чтобы нарушение уникальности
// приходило как gorm.ErrDuplicatedKey.
func ConnectSQLite(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database with path %s error: %w", dbPath, err)
	}
	return db, nil
}

func MigrateSQLite(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Note{}); err != nil {
		return fmt.Errorf("migrating sql: %w", err)
	}
	return nil
}
