package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/tapfolio/backend/internal/models"
)

// ThemeService serves the read-only theme catalogue.
type ThemeService struct {
	db *gorm.DB
}

// NewThemeService creates a new ThemeService instance
func NewThemeService(db *gorm.DB) *ThemeService {
	return &ThemeService{db: db}
}

// ListThemes returns every theme ordered by display name.
func (s *ThemeService) ListThemes(ctx context.Context) ([]models.Theme, error) {
	themes := make([]models.Theme, 0)
	if err := s.db.WithContext(ctx).Order("theme_name ASC").Find(&themes).Error; err != nil {
		return nil, fmt.Errorf("failed to list themes: %w", err)
	}
	return themes, nil
}
