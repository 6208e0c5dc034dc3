// Package store holds the persistence primitives. Every CV operation is scoped by
// (id, owner); a row owned by someone else is reported exactly like a missing row.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"cvforge/internal/database"
)

// ErrNotFound is returned when no row matches the scoped lookup.
var ErrNotFound = errors.New("not found")

// NewCV carries the fields of a document being inserted.
type NewCV struct {
	Title      string
	Content    datatypes.JSON
	TemplateID *string
	IsDraft    bool
}

// Patch lists the fields to change; nil fields are left untouched.
// TemplateSet distinguishes "clear the template" from "leave it alone".
type Patch struct {
	Title       *string
	Content     datatypes.JSON
	TemplateSet bool
	TemplateID  *string
	IsDraft     *bool
}

// CVStore is the persistence contract for CV documents.
type CVStore interface {
	List(ctx context.Context, ownerID string) ([]database.CV, error)
	Create(ctx context.Context, ownerID string, in NewCV) (*database.CV, error)
	Get(ctx context.Context, id, ownerID string) (*database.CV, error)
	Update(ctx context.Context, id, ownerID string, patch Patch) (*database.CV, error)
	Delete(ctx context.Context, id, ownerID string) error
}

// GormCVStore implements CVStore on top of gorm.
type GormCVStore struct {
	db *gorm.DB
}

// NewGormCVStore 构造基于 gorm 的文档存储。
func NewGormCVStore(db *gorm.DB) *GormCVStore {
	return &GormCVStore{db: db}
}

func (s *GormCVStore) List(ctx context.Context, ownerID string) ([]database.CV, error) {
	cvs := make([]database.CV, 0)
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&cvs).Error; err != nil {
		return nil, fmt.Errorf("list cvs: %w", err)
	}
	return cvs, nil
}

func (s *GormCVStore) Create(ctx context.Context, ownerID string, in NewCV) (*database.CV, error) {
	cv := database.CV{
		UserID:     ownerID,
		TemplateID: in.TemplateID,
		Title:      in.Title,
		Content:    in.Content,
		IsDraft:    in.IsDraft,
	}
	if err := s.db.WithContext(ctx).Create(&cv).Error; err != nil {
		return nil, fmt.Errorf("create cv: %w", err)
	}
	return &cv, nil
}

func (s *GormCVStore) Get(ctx context.Context, id, ownerID string) (*database.CV, error) {
	if !isDocumentID(id) {
		return nil, ErrNotFound
	}

	var cv database.CV
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&cv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get cv: %w", err)
	}
	return &cv, nil
}

// Update applies patch and always refreshes updated_at, even when nothing else changes.
func (s *GormCVStore) Update(ctx context.Context, id, ownerID string, patch Patch) (*database.CV, error) {
	if !isDocumentID(id) {
		return nil, ErrNotFound
	}

	updates := map[string]any{
		"updated_at": s.db.NowFunc(),
	}
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Content != nil {
		updates["content"] = patch.Content
	}
	if patch.TemplateSet {
		updates["template_id"] = patch.TemplateID
	}
	if patch.IsDraft != nil {
		updates["is_draft"] = *patch.IsDraft
	}

	result := s.db.WithContext(ctx).
		Model(&database.CV{}).
		Where("id = ? AND user_id = ?", id, ownerID).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("update cv: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id, ownerID)
}

// Delete removes the document if it exists; deleting a missing or foreign id is not an error.
func (s *GormCVStore) Delete(ctx context.Context, id, ownerID string) error {
	if !isDocumentID(id) {
		return nil
	}
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&database.CV{}).Error; err != nil {
		return fmt.Errorf("delete cv: %w", err)
	}
	return nil
}

// 非 uuid 的 id 不可能存在，直接视为未找到，避免 postgres uuid 比较报错。
func isDocumentID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
