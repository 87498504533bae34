package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/models"
)

// Migrate creates or updates the schema for every table the service owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Theme{},
		&models.ClickEvent{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
