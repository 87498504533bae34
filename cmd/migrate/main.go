package main

import (
	"log"

	"github.com/tapfolio/backend/config"
	"github.com/tapfolio/backend/internal/database"
	"github.com/tapfolio/backend/internal/models"
	"gorm.io/gorm"
)

// defaultThemes seeds the read-only theme catalogue on first migration.
var defaultThemes = []models.Theme{
	{ThemeName: "Classic Black", BackgroundImageURL: "https://cdn.tapfolio.in/themes/classic-black.jpg"},
	{ThemeName: "Midnight Blue", BackgroundImageURL: "https://cdn.tapfolio.in/themes/midnight-blue.jpg"},
	{ThemeName: "Sunrise", BackgroundImageURL: "https://cdn.tapfolio.in/themes/sunrise.jpg"},
	{ThemeName: "Forest", BackgroundImageURL: "https://cdn.tapfolio.in/themes/forest.jpg"},
	{ThemeName: "Marble", BackgroundImageURL: "https://cdn.tapfolio.in/themes/marble.jpg"},
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Schema migrated")

	if err := seedThemes(db); err != nil {
		log.Fatalf("Theme seeding failed: %v", err)
	}
	log.Println("Done")
}

func seedThemes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Theme{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Theme table already seeded (%d rows)", count)
		return nil
	}
	if err := db.Create(&defaultThemes).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d themes", len(defaultThemes))
	return nil
}
