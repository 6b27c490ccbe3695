package db

import (
	"fmt"
)

type StorageType string

const (
	StorageTypeSQLite   StorageType = "sqlite"
	StorageTypeInMemory StorageType = "inMemory"
)

const SQLiteDBPath = "./notes.sqlite"

// NewConnection возвращает *gorm.DB для sqlite или *MemoryStorage для хранения в памяти.
func NewConnection(storageType StorageType, sqlitePath string) (any, error) {
	switch storageType {
	case StorageTypeSQLite:
		if sqlitePath == "" {
			sqlitePath = SQLiteDBPath
		}
		return NewSQLite(sqlitePath)
	case StorageTypeInMemory:
		return NewMemStorage(), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", storageType)
	}
}
