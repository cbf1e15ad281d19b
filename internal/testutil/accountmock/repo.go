package accountmock

import (
	"context"

	domain "verifyme-backend/internal/domain/account"

	"github.com/google/uuid"
)

// Ensure compile-time compliance
var (
	_ domain.UserRepository         = (*UserRepo)(nil)
	_ domain.OrganizationRepository = (*OrgRepo)(nil)
)

// UserRepo is a function-backed mock that satisfies domain.UserRepository.
type UserRepo struct {
	CreateFn             func(ctx context.Context, u *domain.User) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	ListByOrganizationFn func(ctx context.Context, orgID uuid.UUID, role domain.Role) ([]domain.User, error)
	SaveFn               func(ctx context.Context, u *domain.User) error
}

func (m *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *UserRepo) ListByOrganization(ctx context.Context, orgID uuid.UUID, role domain.Role) ([]domain.User, error) {
	if m.ListByOrganizationFn != nil {
		return m.ListByOrganizationFn(ctx, orgID, role)
	}
	return nil, nil
}

func (m *UserRepo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

// OrgRepo is a function-backed mock that satisfies domain.OrganizationRepository.
type OrgRepo struct {
	CreateFn    func(ctx context.Context, o *domain.Organization) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	GetByNameFn func(ctx context.Context, name string) (*domain.Organization, error)
	ListFn      func(ctx context.Context) ([]domain.Organization, error)
	SaveFn      func(ctx context.Context, o *domain.Organization) error
}

func (m *OrgRepo) Create(ctx context.Context, o *domain.Organization) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, o)
	}
	return nil
}

func (m *OrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *OrgRepo) GetByName(ctx context.Context, name string) (*domain.Organization, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, name)
	}
	return nil, context.Canceled
}

func (m *OrgRepo) List(ctx context.Context) ([]domain.Organization, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, nil
}

func (m *OrgRepo) Save(ctx context.Context, o *domain.Organization) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, o)
	}
	return nil
}
