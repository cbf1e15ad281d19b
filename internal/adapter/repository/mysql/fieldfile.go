package mysql

import (
	"context"

	entryDomain "verifyme-backend/internal/domain/entry"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FieldFileRepository struct{ db *gorm.DB }

func NewFieldFileRepository(db *gorm.DB) *FieldFileRepository { return &FieldFileRepository{db: db} }

func (r *FieldFileRepository) Create(ctx context.Context, f *entryDomain.FieldFile) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FieldFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entryDomain.FieldFile, error) {
	var out entryDomain.FieldFile
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *FieldFileRepository) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]entryDomain.FieldFile, error) {
	var out []entryDomain.FieldFile
	res := r.db.WithContext(ctx).
		Where("form_entry_id = ?", entryID).
		Order("uploaded_at DESC").
		Find(&out)
	return out, res.Error
}

func (r *FieldFileRepository) Claim(ctx context.Context, fromEntry, toEntry uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&entryDomain.FieldFile{}).
		Where("form_entry_id = ?", fromEntry).
		Updates(map[string]any{"form_entry_id": toEntry, "is_temporary": false}).
		Error
}

func (r *FieldFileRepository) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Delete(&entryDomain.FieldFile{}, "form_entry_id = ?", entryID).
		Error
}
