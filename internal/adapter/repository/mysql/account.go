package mysql

import (
	"context"

	accountDomain "verifyme-backend/internal/domain/account"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *accountDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *accountDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*accountDomain.User, error) {
	var out accountDomain.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*accountDomain.User, error) {
	var out accountDomain.User
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *UserRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, role accountDomain.Role) ([]accountDomain.User, error) {
	q := r.db.WithContext(ctx).Where("organization_id = ?", orgID)
	if role != "" {
		q = q.Where("role = ?", role)
	}
	var out []accountDomain.User
	res := q.Order("created_at ASC").Find(&out)
	return out, res.Error
}

type OrganizationRepository struct{ db *gorm.DB }

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(ctx context.Context, o *accountDomain.Organization) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrganizationRepository) Save(ctx context.Context, o *accountDomain.Organization) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*accountDomain.Organization, error) {
	var out accountDomain.Organization
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *OrganizationRepository) GetByName(ctx context.Context, name string) (*accountDomain.Organization, error) {
	var out accountDomain.Organization
	res := r.db.WithContext(ctx).Where("name = ?", name).First(&out)
	return &out, res.Error
}

func (r *OrganizationRepository) List(ctx context.Context) ([]accountDomain.Organization, error) {
	var out []accountDomain.Organization
	res := r.db.WithContext(ctx).Order("name ASC").Find(&out)
	return out, res.Error
}
