package mysql

import (
	"context"

	schemaDomain "verifyme-backend/internal/domain/schema"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SchemaRepository struct{ db *gorm.DB }

func NewSchemaRepository(db *gorm.DB) *SchemaRepository { return &SchemaRepository{db: db} }

func (r *SchemaRepository) Create(ctx context.Context, s *schemaDomain.FormSchema) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SchemaRepository) Save(ctx context.Context, s *schemaDomain.FormSchema) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *SchemaRepository) GetByID(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
	var out schemaDomain.FormSchema
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *SchemaRepository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
	var out schemaDomain.FormSchema
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *SchemaRepository) GetByName(ctx context.Context, orgID uuid.UUID, name string) (*schemaDomain.FormSchema, error) {
	var out schemaDomain.FormSchema
	res := r.db.WithContext(ctx).
		Where("organization_id = ? AND name = ?", orgID, name).
		First(&out)
	return &out, res.Error
}

func (r *SchemaRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]schemaDomain.FormSchema, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []schemaDomain.FormSchema
	res := q.Order("created_at DESC").Find(&out)
	return out, res.Error
}

func (r *SchemaRepository) ListAll(ctx context.Context, activeOnly bool) ([]schemaDomain.FormSchema, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var out []schemaDomain.FormSchema
	res := q.Order("created_at DESC").Find(&out)
	return out, res.Error
}

func (r *SchemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&schemaDomain.FormSchema{}, "id = ?", id).Error
}
