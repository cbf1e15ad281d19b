package entrymock

import (
	"context"

	domain "verifyme-backend/internal/domain/entry"

	"github.com/google/uuid"
)

// Ensure compile-time compliance
var (
	_ domain.Repository     = (*Repo)(nil)
	_ domain.FileRepository = (*FileRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn               func(ctx context.Context, e *domain.FormEntry) error
	GetByIDFn              func(ctx context.Context, id uuid.UUID) (*domain.FormEntry, error)
	SaveFn                 func(ctx context.Context, e *domain.FormEntry) error
	DeleteFn               func(ctx context.Context, id uuid.UUID) error
	NextCaseIDFn           func(ctx context.Context, orgID uuid.UUID) (int64, error)
	FindFn                 func(ctx context.Context, f domain.Filter) ([]domain.FormEntry, error)
	ListBySchemaFn         func(ctx context.Context, schemaID uuid.UUID) ([]domain.FormEntry, error)
	ListByEmployeeFn       func(ctx context.Context, employeeID uuid.UUID) ([]domain.FormEntry, error)
	ExistsWithFieldValueFn func(ctx context.Context, orgID uuid.UUID, field, value string, exclude uuid.UUID) (bool, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.FormEntry) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FormEntry, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, e *domain.FormEntry) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}

func (m *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *Repo) NextCaseID(ctx context.Context, orgID uuid.UUID) (int64, error) {
	if m.NextCaseIDFn != nil {
		return m.NextCaseIDFn(ctx, orgID)
	}
	return 1, nil
}

func (m *Repo) Find(ctx context.Context, f domain.Filter) ([]domain.FormEntry, error) {
	if m.FindFn != nil {
		return m.FindFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListBySchema(ctx context.Context, schemaID uuid.UUID) ([]domain.FormEntry, error) {
	if m.ListBySchemaFn != nil {
		return m.ListBySchemaFn(ctx, schemaID)
	}
	return nil, nil
}

func (m *Repo) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]domain.FormEntry, error) {
	if m.ListByEmployeeFn != nil {
		return m.ListByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (m *Repo) ExistsWithFieldValue(ctx context.Context, orgID uuid.UUID, field, value string, exclude uuid.UUID) (bool, error) {
	if m.ExistsWithFieldValueFn != nil {
		return m.ExistsWithFieldValueFn(ctx, orgID, field, value, exclude)
	}
	return false, nil
}

// FileRepo is a function-backed mock that satisfies domain.FileRepository.
type FileRepo struct {
	CreateFn        func(ctx context.Context, f *domain.FieldFile) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.FieldFile, error)
	ListByEntryFn   func(ctx context.Context, entryID uuid.UUID) ([]domain.FieldFile, error)
	ClaimFn         func(ctx context.Context, fromEntry, toEntry uuid.UUID) error
	DeleteByEntryFn func(ctx context.Context, entryID uuid.UUID) error
}

func (m *FileRepo) Create(ctx context.Context, f *domain.FieldFile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}

func (m *FileRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.FieldFile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *FileRepo) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]domain.FieldFile, error) {
	if m.ListByEntryFn != nil {
		return m.ListByEntryFn(ctx, entryID)
	}
	return nil, nil
}

func (m *FileRepo) Claim(ctx context.Context, fromEntry, toEntry uuid.UUID) error {
	if m.ClaimFn != nil {
		return m.ClaimFn(ctx, fromEntry, toEntry)
	}
	return nil
}

func (m *FileRepo) DeleteByEntry(ctx context.Context, entryID uuid.UUID) error {
	if m.DeleteByEntryFn != nil {
		return m.DeleteByEntryFn(ctx, entryID)
	}
	return nil
}
