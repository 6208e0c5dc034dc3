package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"cvforge/internal/database"
)

// GormTemplateStore reads the template catalog.
type GormTemplateStore struct {
	db *gorm.DB
}

func NewGormTemplateStore(db *gorm.DB) *GormTemplateStore {
	return &GormTemplateStore{db: db}
}

// ListActive returns active templates in catalog order.
func (s *GormTemplateStore) ListActive(ctx context.Context) ([]database.CVTemplate, error) {
	templates := make([]database.CVTemplate, 0)
	if err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	return templates, nil
}

func (s *GormTemplateStore) Get(ctx context.Context, id string) (*database.CVTemplate, error) {
	var tpl database.CVTemplate
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&tpl).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get template: %w", err)
	}
	return &tpl, nil
}

// Seed inserts templates that are not present yet.
func (s *GormTemplateStore) Seed(ctx context.Context, templates []database.CVTemplate) (int64, error) {
	return database.SeedTemplates(ctx, s.db, templates)
}
