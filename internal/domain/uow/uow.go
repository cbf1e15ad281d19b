package uow

import (
	"context"

	"verifyme-backend/internal/domain/account"
	"verifyme-backend/internal/domain/entry"
	"verifyme-backend/internal/domain/schema"

	"github.com/google/uuid"
)

type Repos struct {
	Schemas       schema.Repository
	Entries       entry.Repository
	FieldFiles    entry.FileRepository
	Users         account.UserRepository
	Organizations account.OrganizationRepository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the schema row first, then pass it in; mutate and
	// entry-creation flows both start from a consistent schema read.
	WithinSchemaTx(ctx context.Context, schemaID uuid.UUID, fn func(r Repos, s *schema.FormSchema) error) error
}
