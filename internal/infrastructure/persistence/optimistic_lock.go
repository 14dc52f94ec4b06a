package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// updateWithLock writes every column of model except omit, provided the row
// still holds the version the aggregate was loaded at. The aggregate has
// already incremented its version, so the stored one is version-1.
func updateWithLock(ctx context.Context, db *gorm.DB, model interface{}, id uuid.UUID, version int, omit ...string) error {
	result := db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", id, version-1).
		Select("*").
		Omit(omit...).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return shared.ErrConflict
}
