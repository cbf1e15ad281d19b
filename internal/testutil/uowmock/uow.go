package uowmock

import (
	"context"
	"errors"

	"verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"

	"github.com/google/uuid"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn       func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinSchemaTxFn func(ctx context.Context, schemaID uuid.UUID, fn func(r uow.Repos, s *schema.FormSchema) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough builds a mock whose transactions just invoke the body
// with the given repos, locking nothing. The schema is looked up via
// r.Schemas so tests control what the "locked" row contains.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(r uow.Repos) error) error {
			return fn(repos)
		},
		WithinSchemaTxFn: func(ctx context.Context, schemaID uuid.UUID, fn func(r uow.Repos, s *schema.FormSchema) error) error {
			s, err := repos.Schemas.GetByIDForUpdate(ctx, schemaID)
			if err != nil {
				return err
			}
			return fn(repos, s)
		},
	}
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinSchemaTx(ctx context.Context, schemaID uuid.UUID, fn func(r uow.Repos, s *schema.FormSchema) error) error {
	if m.WithinSchemaTxFn != nil {
		return m.WithinSchemaTxFn(ctx, schemaID, fn)
	}
	return errUnimplemented
}
