package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cvforge/internal/database"
)

// GormUserStore 维护身份服务用户的本地镜像。
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

// Upsert inserts the user or refreshes the mirrored profile fields.
func (s *GormUserStore) Upsert(ctx context.Context, user database.User) (*database.User, error) {
	if user.ID == "" {
		return nil, errors.New("upsert user: empty id")
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "first_name", "last_name", "avatar_url", "updated_at"}),
		}).
		Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return s.Get(ctx, user.ID)
}

func (s *GormUserStore) Get(ctx context.Context, id string) (*database.User, error) {
	var user database.User
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
