package schemamock

import (
	"context"

	domain "verifyme-backend/internal/domain/schema"

	"github.com/google/uuid"
)

// Ensure compile-time compliance
var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateFn             func(ctx context.Context, s *domain.FormSchema) error
	SaveFn               func(ctx context.Context, s *domain.FormSchema) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.FormSchema, error)
	GetByIDForUpdateFn   func(ctx context.Context, id uuid.UUID) (*domain.FormSchema, error)
	GetByNameFn          func(ctx context.Context, orgID uuid.UUID, name string) (*domain.FormSchema, error)
	ListByOrganizationFn func(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]domain.FormSchema, error)
	ListAllFn            func(ctx context.Context, activeOnly bool) ([]domain.FormSchema, error)
	DeleteFn             func(ctx context.Context, id uuid.UUID) error
}

func (m *Repo) Create(ctx context.Context, s *domain.FormSchema) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, s *domain.FormSchema) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FormSchema, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.FormSchema, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByName(ctx context.Context, orgID uuid.UUID, name string) (*domain.FormSchema, error) {
	if m.GetByNameFn != nil {
		return m.GetByNameFn(ctx, orgID, name)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByOrganization(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]domain.FormSchema, error) {
	if m.ListByOrganizationFn != nil {
		return m.ListByOrganizationFn(ctx, orgID, activeOnly)
	}
	return nil, nil
}

func (m *Repo) ListAll(ctx context.Context, activeOnly bool) ([]domain.FormSchema, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx, activeOnly)
	}
	return nil, nil
}

func (m *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}
