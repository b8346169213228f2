package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/microservice-production/internal/domain/records"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(records.Models()...); err != nil {
		return fmt.Errorf("automigrate records: %w", err)
	}
	return nil
}

// Ping checks that the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
