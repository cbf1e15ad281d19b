package schema

import (
	"context"
	"errors"
	"fmt"

	"verifyme-backend/internal/domain/account"
	domain "verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrForbidden     = errors.New("not allowed for this role")
	ErrDuplicateName = errors.New("schema name already used in this organization")
)

type Usecase struct {
	repo domain.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo domain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: tx}
}

func (u *Usecase) Create(ctx context.Context, actor *account.User, in CreateSchemaInput) (*SchemaDTO, error) {
	if !actor.IsAdmin() && !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	if in.Name == "" {
		return nil, errors.New("schema name is required")
	}
	if actor.OrganizationID == nil {
		return nil, errors.New("actor has no organization")
	}

	maxFields := in.MaxFields
	if maxFields <= 0 || maxFields > domain.DefaultMaxFields {
		maxFields = domain.DefaultMaxFields
	}
	if len(in.Fields) > maxFields {
		return nil, fmt.Errorf("%w (%d)", domain.ErrMaxFields, maxFields)
	}
	for i := range in.Fields {
		if in.Fields[i].Name == "" || !in.Fields[i].FieldType.Valid() {
			return nil, fmt.Errorf("field %d: name and a valid field_type are required", i)
		}
		in.Fields[i].Order = i
	}

	if _, err := u.repo.GetByName(ctx, *actor.OrganizationID, in.Name); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tat := in.TATHoursLimit
	if tat <= 0 {
		tat = domain.DefaultTATHoursLimit
	}
	s := &domain.FormSchema{
		ID:             uuid.New(),
		Name:           in.Name,
		Description:    in.Description,
		OrganizationID: *actor.OrganizationID,
		Fields:         in.Fields,
		MaxFields:      maxFields,
		TATHoursLimit:  tat,
		IsActive:       true,
		Version:        1,
		CreatedByID:    &actor.ID,
	}
	if err := u.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toDTO(s), nil
}

func (u *Usecase) Get(ctx context.Context, actor *account.User, id uuid.UUID) (*SchemaDTO, error) {
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.HasOrganizationAccess(s.OrganizationID) {
		return nil, ErrForbidden
	}
	return toDTO(s), nil
}

func (u *Usecase) List(ctx context.Context, actor *account.User, activeOnly bool) ([]SchemaDTO, error) {
	var (
		schemas []domain.FormSchema
		err     error
	)
	if actor.IsSuperAdmin() {
		schemas, err = u.repo.ListAll(ctx, activeOnly)
	} else {
		if actor.OrganizationID == nil {
			return nil, errors.New("actor has no organization")
		}
		schemas, err = u.repo.ListByOrganization(ctx, *actor.OrganizationID, activeOnly)
	}
	if err != nil {
		return nil, err
	}
	out := make([]SchemaDTO, 0, len(schemas))
	for i := range schemas {
		out = append(out, *toDTO(&schemas[i]))
	}
	return out, nil
}

// Mutate applies an operation list keyed to expected_version inside one
// transaction holding the schema row lock. A stale version surfaces
// domain.ErrVersionConflict so callers can distinguish it from plain
// validation failures; nothing is ever silently overwritten.
func (u *Usecase) Mutate(ctx context.Context, actor *account.User, id uuid.UUID, in MutateInput) (*SchemaDTO, error) {
	if !actor.IsAdmin() && !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	var dto *SchemaDTO
	err := u.uow.WithinSchemaTx(ctx, id, func(r uow.Repos, s *domain.FormSchema) error {
		if !actor.HasOrganizationAccess(s.OrganizationID) {
			return ErrForbidden
		}
		if err := s.ApplyOperations(in.ExpectedVersion, in.Operations); err != nil {
			return err
		}
		if err := r.Schemas.Save(ctx, s); err != nil {
			return err
		}
		dto = toDTO(s)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

// ReplaceFields accepts a full edited field list, diffs it against the
// schema's current active fields server-side, and applies the result as a
// normal mutate. Convenience path for clients that do not build operation
// lists themselves.
func (u *Usecase) ReplaceFields(ctx context.Context, actor *account.User, id uuid.UUID, expectedVersion int, edited []domain.FormField) (*SchemaDTO, error) {
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	ops := domain.Diff(s.Fields.ActiveFields(), edited)
	if len(ops) == 0 {
		return toDTO(s), nil
	}
	return u.Mutate(ctx, actor, id, MutateInput{ExpectedVersion: expectedVersion, Operations: ops})
}

// Duplicate copies a schema under a new name with a fresh version.
func (u *Usecase) Duplicate(ctx context.Context, actor *account.User, id uuid.UUID, newName string) (*SchemaDTO, error) {
	if !actor.IsAdmin() && !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	src, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.HasOrganizationAccess(src.OrganizationID) {
		return nil, ErrForbidden
	}
	if newName == "" {
		newName = src.Name + " (copy)"
	}
	if _, err := u.repo.GetByName(ctx, src.OrganizationID, newName); err == nil {
		return nil, ErrDuplicateName
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fields := make(domain.FieldList, len(src.Fields))
	copy(fields, src.Fields)
	dup := &domain.FormSchema{
		ID:             uuid.New(),
		Name:           newName,
		Description:    src.Description,
		OrganizationID: src.OrganizationID,
		Fields:         fields,
		MaxFields:      src.MaxFields,
		TATHoursLimit:  src.TATHoursLimit,
		IsActive:       true,
		Version:        1,
		CreatedByID:    &actor.ID,
	}
	if err := u.repo.Create(ctx, dup); err != nil {
		return nil, err
	}
	return toDTO(dup), nil
}

// Delete deactivates the schema; entries keep referencing it.
func (u *Usecase) Delete(ctx context.Context, actor *account.User, id uuid.UUID) error {
	if !actor.IsAdmin() && !actor.IsSuperAdmin() {
		return ErrForbidden
	}
	s, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	if !actor.HasOrganizationAccess(s.OrganizationID) {
		return ErrForbidden
	}
	s.IsActive = false
	return u.repo.Save(ctx, s)
}
