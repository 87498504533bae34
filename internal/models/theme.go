package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Theme is a named background option offered in the profile editor.
// Read-only reference data, seeded out-of-band by cmd/migrate.
type Theme struct {
	ID                 uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	ThemeName          string    `gorm:"size:100;not null;column:theme_name" json:"theme_name"`
	BackgroundImageURL string    `gorm:"size:512;column:background_image_url" json:"background_image_url"`
	CreatedAt          time.Time `json:"created_at"`
}

func (Theme) TableName() string {
	return "theme"
}

func (t *Theme) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
