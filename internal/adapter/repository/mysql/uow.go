package mysql

import (
	"context"

	schemaDomain "verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func txRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Schemas:       &SchemaRepository{db: tx},
		Entries:       &EntryRepository{db: tx},
		FieldFiles:    &FieldFileRepository{db: tx},
		Users:         &UserRepository{db: tx},
		Organizations: &OrganizationRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos(tx))
	})
}

func (u *GormUoW) WithinSchemaTx(ctx context.Context, schemaID uuid.UUID, fn func(r uow.Repos, s *schemaDomain.FormSchema) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := txRepos(tx)
		// lock the schema row up-front to prevent races
		s, err := r.Schemas.GetByIDForUpdate(ctx, schemaID)
		if err != nil {
			return err
		}
		return fn(r, s)
	})
}
