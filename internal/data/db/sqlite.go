package db

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(cfg Config, gcfg *gorm.Config) (*gorm.DB, error) {
	path := cfg.SQLitePath
	if path == "" {
		path = cfg.DSN
	}
	if path == "" {
		path = "file::memory:?cache=shared"
	}
	theDB, err := gorm.Open(sqlite.Open(path), gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite %q: %w", path, err)
	}
	return theDB, nil
}
