package schema

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *FormSchema) error
	GetByID(ctx context.Context, id uuid.UUID) (*FormSchema, error)
	// GetByIDForUpdate locks the schema row for the duration of the
	// surrounding transaction; mutate flows go through this.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*FormSchema, error)
	GetByName(ctx context.Context, orgID uuid.UUID, name string) (*FormSchema, error)
	ListByOrganization(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]FormSchema, error)
	ListAll(ctx context.Context, activeOnly bool) ([]FormSchema, error)
	Save(ctx context.Context, s *FormSchema) error
	Delete(ctx context.Context, id uuid.UUID) error
}
