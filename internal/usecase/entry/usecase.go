package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"verifyme-backend/internal/domain/account"
	domain "verifyme-backend/internal/domain/entry"
	schemaDomain "verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrForbidden = errors.New("not allowed for this role")

const defaultPageSize = 20

type Usecase struct {
	entries domain.Repository
	schemas schemaDomain.Repository
	uow     uow.UnitOfWork
}

func NewUsecase(entries domain.Repository, schemas schemaDomain.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{entries: entries, schemas: schemas, uow: tx}
}

// Create validates form data against the schema contract, assigns the next
// per-organization case id and inserts the entry, all inside one
// transaction holding the schema row.
func (u *Usecase) Create(ctx context.Context, actor *account.User, in CreateEntryInput) (*EntryDTO, error) {
	if actor.OrganizationID == nil {
		return nil, errors.New("actor has no organization")
	}
	var dto *EntryDTO
	err := u.uow.WithinSchemaTx(ctx, in.FormSchemaID, func(r uow.Repos, s *schemaDomain.FormSchema) error {
		if !actor.HasOrganizationAccess(s.OrganizationID) {
			return ErrForbidden
		}

		data := in.FormData
		if data == nil {
			data = map[string]any{}
		}

		if !in.temporary {
			s.ApplyDefaults(data)
			if unknown := s.UnknownFields(data); len(unknown) > 0 {
				return fmt.Errorf("unknown fields: %v", unknown)
			}
			if err := s.ValidateSubmission(data); err != nil {
				return err
			}
			if err := u.checkUniqueFields(ctx, r.Entries, s, *actor.OrganizationID, data); err != nil {
				return err
			}
			if !in.AllowDuplicate {
				if err := u.checkDuplicate(ctx, r.Entries, *actor.OrganizationID, data); err != nil {
					return err
				}
			}
		}

		caseID, err := r.Entries.NextCaseID(ctx, *actor.OrganizationID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		e := &domain.FormEntry{
			ID:             uuid.New(),
			CaseID:         caseID,
			OrganizationID: *actor.OrganizationID,
			EmployeeID:     actor.ID,
			FormSchemaID:   s.ID,
			FormData:       data,
			IsTemporary:    in.temporary,
			TATStartTime:   now,
		}
		if err := r.Entries.Create(ctx, e); err != nil {
			return err
		}
		d := toDTO(e, s.TATHoursLimit, now)
		dto = &d
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schemaDomain.ErrNotFound
		}
		return nil, err
	}
	return dto, nil
}

func (u *Usecase) checkUniqueFields(ctx context.Context, repo domain.Repository, s *schemaDomain.FormSchema, orgID uuid.UUID, data map[string]any) error {
	for _, f := range s.Fields.ActiveFields() {
		if !f.IsUnique {
			continue
		}
		v, ok := data[f.Name].(string)
		if !ok || v == "" {
			continue
		}
		exists, err := repo.ExistsWithFieldValue(ctx, orgID, f.Name, v, uuid.Nil)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("%w: %s", domain.ErrUniqueField, f.DisplayName)
		}
	}
	return nil
}

// checkDuplicate runs the duplicate heuristic over the new data plus the
// org entries sharing any of its critical values; a colliding key with
// full-confidence match is rejected as a probable duplicate.
func (u *Usecase) checkDuplicate(ctx context.Context, repo domain.Repository, orgID uuid.UUID, data map[string]any) error {
	candidate := domain.FormEntry{FormData: data}
	key, ok := domain.DuplicateKeyOf(&candidate)
	if !ok {
		return nil
	}
	existing, err := repo.Find(ctx, domain.Filter{OrganizationID: &orgID})
	if err != nil {
		return err
	}
	for i := range existing {
		if k, ok := domain.DuplicateKeyOf(&existing[i]); ok && k == key {
			return domain.ErrDuplicateEntry
		}
	}
	return nil
}

func (u *Usecase) Get(ctx context.Context, actor *account.User, id uuid.UUID) (*EntryDTO, error) {
	e, err := u.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	d := toDTO(e, u.tatLimitFor(ctx, e.FormSchemaID), time.Now().UTC())
	return &d, nil
}

// Update relays edited form_data after re-validating it against the
// schema contract. Employees may only touch their own entries.
func (u *Usecase) Update(ctx context.Context, actor *account.User, id uuid.UUID, in UpdateEntryInput) (*EntryDTO, error) {
	e, err := u.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	s, err := u.schemas.GetByID(ctx, e.FormSchemaID)
	if err != nil {
		return nil, err
	}
	if in.FormData != nil {
		if unknown := s.UnknownFields(in.FormData); len(unknown) > 0 {
			return nil, fmt.Errorf("unknown fields: %v", unknown)
		}
		if err := s.ValidateSubmission(in.FormData); err != nil {
			return nil, err
		}
		e.FormData = in.FormData
	}
	if in.VerificationNotes != nil {
		e.VerificationNotes = *in.VerificationNotes
	}
	if err := u.entries.Save(ctx, e); err != nil {
		return nil, err
	}
	d := toDTO(e, s.TATHoursLimit, time.Now().UTC())
	return &d, nil
}

func (u *Usecase) Delete(ctx context.Context, actor *account.User, id uuid.UUID) error {
	e, err := u.getScoped(ctx, actor, id)
	if err != nil {
		return err
	}
	return u.entries.Delete(ctx, e.ID)
}

func (u *Usecase) Complete(ctx context.Context, actor *account.User, id uuid.UUID) (*EntryDTO, error) {
	e, err := u.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e.MarkCompleted(now)
	if err := u.entries.Save(ctx, e); err != nil {
		return nil, err
	}
	d := toDTO(e, u.tatLimitFor(ctx, e.FormSchemaID), now)
	return &d, nil
}

func (u *Usecase) Verify(ctx context.Context, actor *account.User, id uuid.UUID, notes string) (*EntryDTO, error) {
	if !actor.IsAdmin() && !actor.IsSuperAdmin() {
		return nil, ErrForbidden
	}
	e, err := u.getScoped(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	e.MarkVerified(actor.ID, notes, now)
	if err := u.entries.Save(ctx, e); err != nil {
		return nil, err
	}
	d := toDTO(e, u.tatLimitFor(ctx, e.FormSchemaID), now)
	return &d, nil
}

func (u *Usecase) MyEntries(ctx context.Context, actor *account.User) ([]EntryDTO, error) {
	list, err := u.entries.ListByEmployee(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return u.toDTOs(ctx, actor, list), nil
}

// AdvancedFilter implements the POST advanced-filter contract: SQL-side
// filters via the repository, then the schema-specific out-of-TAT
// predicate and pagination over the candidate set.
func (u *Usecase) AdvancedFilter(ctx context.Context, actor *account.User, req FilterRequest) (*FilterPage, error) {
	f, warnings, err := u.buildFilter(ctx, actor, req)
	if err != nil {
		return nil, err
	}

	candidates, err := u.entries.Find(ctx, *f)
	if err != nil {
		return nil, err
	}

	limits, err := u.tatLimits(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	if want, ok := coerceBool(req.IsOutOfTAT); ok {
		kept := candidates[:0]
		for _, e := range candidates {
			if e.IsOutOfTAT(limitFor(limits, e.FormSchemaID), now) == want {
				kept = append(kept, e)
			}
		}
		candidates = kept
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	total := int64(len(candidates))
	offset := (page - 1) * pageSize
	if offset > len(candidates) {
		offset = len(candidates)
	}
	end := offset + pageSize
	if end > len(candidates) {
		end = len(candidates)
	}

	results := make([]EntryDTO, 0, end-offset)
	for i := offset; i < end; i++ {
		results = append(results, toDTO(&candidates[i], limitFor(limits, candidates[i].FormSchemaID), now))
	}

	out := &FilterPage{Count: total, Results: results, Warnings: warnings}
	if int64(end) < total {
		n := fmt.Sprintf("?page=%d", page+1)
		out.Next = &n
	}
	if page > 1 {
		p := fmt.Sprintf("?page=%d", page-1)
		out.Previous = &p
	}
	return out, nil
}

func (u *Usecase) Counts(ctx context.Context, actor *account.User) (*CountsDTO, error) {
	f := domain.Filter{}
	if !actor.IsSuperAdmin() {
		f.OrganizationID = actor.OrganizationID
	}
	if actor.IsEmployee() {
		f.EmployeeID = &actor.ID
	}
	list, err := u.entries.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	limits, err := u.tatLimits(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := &CountsDTO{Total: len(list)}
	for i := range list {
		switch list[i].Status() {
		case domain.StatusVerified:
			out.Verified++
		case domain.StatusCompleted:
			out.Completed++
		default:
			out.Pending++
		}
		if list[i].IsOutOfTAT(limitFor(limits, list[i].FormSchemaID), now) {
			out.OutOfTAT++
		}
	}
	return out, nil
}

// Duplicates runs the duplicate-detection heuristic over the actor's
// visible working set.
func (u *Usecase) Duplicates(ctx context.Context, actor *account.User) ([]DuplicateGroupDTO, error) {
	f := domain.Filter{}
	if !actor.IsSuperAdmin() {
		f.OrganizationID = actor.OrganizationID
	}
	list, err := u.entries.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	limits, err := u.tatLimits(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	groups := domain.DetectDuplicates(list)
	out := make([]DuplicateGroupDTO, 0, len(groups))
	for _, g := range groups {
		dto := DuplicateGroupDTO{Key: g.Key, Confidence: g.Confidence}
		for i := range g.Entries {
			dto.Entries = append(dto.Entries, toDTO(&g.Entries[i], limitFor(limits, g.Entries[i].FormSchemaID), now))
		}
		out = append(out, dto)
	}
	return out, nil
}

func (u *Usecase) ListBySchema(ctx context.Context, actor *account.User, schemaID uuid.UUID) ([]EntryDTO, error) {
	s, err := u.schemas.GetByID(ctx, schemaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, schemaDomain.ErrNotFound
		}
		return nil, err
	}
	if !actor.HasOrganizationAccess(s.OrganizationID) {
		return nil, ErrForbidden
	}
	list, err := u.entries.ListBySchema(ctx, schemaID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := make([]EntryDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], s.TATHoursLimit, now))
	}
	return out, nil
}

// ---- helpers ----

func (u *Usecase) getScoped(ctx context.Context, actor *account.User, id uuid.UUID) (*domain.FormEntry, error) {
	e, err := u.entries.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if !actor.HasOrganizationAccess(e.OrganizationID) {
		return nil, ErrForbidden
	}
	if actor.IsEmployee() && e.EmployeeID != actor.ID {
		return nil, ErrForbidden
	}
	return e, nil
}

// buildFilter translates the request into a repository filter, validating
// business-specific form_data filters against the union of active schema
// field names; unknown ones produce warnings rather than errors.
func (u *Usecase) buildFilter(ctx context.Context, actor *account.User, req FilterRequest) (*domain.Filter, []string, error) {
	f := &domain.Filter{
		DateRange:    req.DateRange,
		Month:        req.Month,
		Year:         req.Year,
		EmployeeName: req.EmployeeName,
		CaseType:     req.CaseType,
		Status:       req.Status,
		Search:       req.Search,
		FormData:     map[string]string{},
	}
	if !actor.IsSuperAdmin() {
		f.OrganizationID = actor.OrganizationID
	}
	if actor.IsEmployee() {
		f.EmployeeID = &actor.ID
	}
	if t, err := parseDate(req.StartDate); err != nil {
		return nil, nil, fmt.Errorf("invalid start_date: %w", err)
	} else if t != nil {
		f.StartDate = t
	}
	if t, err := parseDate(req.EndDate); err != nil {
		return nil, nil, fmt.Errorf("invalid end_date: %w", err)
	} else if t != nil {
		f.EndDate = t
	}

	known, err := u.schemaFieldNames(ctx, actor)
	if err != nil {
		return nil, nil, err
	}
	var warnings []string
	for name, value := range req.businessFilters() {
		if value == "" {
			continue
		}
		if !known[name] {
			warnings = append(warnings, fmt.Sprintf("Filter field %q is not present in your organization's form schemas", name))
			continue
		}
		f.FormData[name] = value
	}
	return f, warnings, nil
}

func (u *Usecase) schemaFieldNames(ctx context.Context, actor *account.User) (map[string]bool, error) {
	schemas, err := u.visibleSchemas(ctx, actor)
	if err != nil {
		return nil, err
	}
	names := map[string]bool{}
	for i := range schemas {
		for _, fld := range schemas[i].Fields {
			names[fld.Name] = true
		}
	}
	return names, nil
}

func (u *Usecase) visibleSchemas(ctx context.Context, actor *account.User) ([]schemaDomain.FormSchema, error) {
	if actor.IsSuperAdmin() {
		return u.schemas.ListAll(ctx, false)
	}
	if actor.OrganizationID == nil {
		return nil, errors.New("actor has no organization")
	}
	return u.schemas.ListByOrganization(ctx, *actor.OrganizationID, false)
}

func (u *Usecase) tatLimits(ctx context.Context, actor *account.User) (map[uuid.UUID]int, error) {
	schemas, err := u.visibleSchemas(ctx, actor)
	if err != nil {
		return nil, err
	}
	limits := make(map[uuid.UUID]int, len(schemas))
	for i := range schemas {
		limits[schemas[i].ID] = schemas[i].TATHoursLimit
	}
	return limits, nil
}

func (u *Usecase) tatLimitFor(ctx context.Context, schemaID uuid.UUID) int {
	s, err := u.schemas.GetByID(ctx, schemaID)
	if err != nil {
		return schemaDomain.DefaultTATHoursLimit
	}
	return s.TATHoursLimit
}

func (u *Usecase) toDTOs(ctx context.Context, actor *account.User, list []domain.FormEntry) []EntryDTO {
	limits, err := u.tatLimits(ctx, actor)
	if err != nil {
		limits = map[uuid.UUID]int{}
	}
	now := time.Now().UTC()
	out := make([]EntryDTO, 0, len(list))
	for i := range list {
		out = append(out, toDTO(&list[i], limitFor(limits, list[i].FormSchemaID), now))
	}
	return out
}

// limitFor falls back to the default TAT limit when an entry references a
// schema outside the visible set (e.g. a deleted one).
func limitFor(limits map[uuid.UUID]int, id uuid.UUID) int {
	if v, ok := limits[id]; ok {
		return v
	}
	return schemaDomain.DefaultTATHoursLimit
}

func coerceBool(v any) (value, ok bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		if t == "" {
			return false, false
		}
		return t == "true" || t == "True" || t == "1", true
	default:
		return false, false
	}
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unparseable date %q", s)
}
