package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"verifyme-backend/internal/domain/account"
	entryDomain "verifyme-backend/internal/domain/entry"
	schemaDomain "verifyme-backend/internal/domain/schema"
	"verifyme-backend/internal/domain/uow"
	"verifyme-backend/internal/testutil/entrymock"
	"verifyme-backend/internal/testutil/schemamock"
	"verifyme-backend/internal/testutil/uowmock"
	entryUC "verifyme-backend/internal/usecase/entry"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func entrySchema(orgID uuid.UUID) *schemaDomain.FormSchema {
	return &schemaDomain.FormSchema{
		ID:             uuid.New(),
		Name:           "residence verification",
		OrganizationID: orgID,
		Fields: schemaDomain.FieldList{
			{Name: "applicant_name", DisplayName: "Applicant Name", FieldType: schemaDomain.FieldString, IsRequired: true, Order: 0},
		},
		MaxFields:     schemaDomain.DefaultMaxFields,
		TATHoursLimit: 24,
		IsActive:      true,
		Version:       1,
	}
}

func newEntryHandler(s *schemaDomain.FormSchema, entries *entrymock.Repo) *EntryHandler {
	schemas := &schemamock.Repo{
		GetByIDFn: func(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
			return s, nil
		},
		GetByIDForUpdateFn: func(ctx context.Context, id uuid.UUID) (*schemaDomain.FormSchema, error) {
			return s, nil
		},
		ListByOrganizationFn: func(ctx context.Context, orgID uuid.UUID, activeOnly bool) ([]schemaDomain.FormSchema, error) {
			return []schemaDomain.FormSchema{*s}, nil
		},
	}
	unit := uowmock.Passthrough(uow.Repos{Schemas: schemas, Entries: entries})
	usecase := entryUC.NewUsecase(entries, schemas, unit)
	return NewEntryHandler(usecase, nil)
}

func employee(orgID uuid.UUID) *account.User {
	return &account.User{ID: uuid.New(), Role: account.RoleEmployee, OrganizationID: &orgID, IsActive: true}
}

func TestEntryCreate_Success(t *testing.T) {
	e := newEchoWithValidator()
	orgID := uuid.New()
	s := entrySchema(orgID)

	entries := &entrymock.Repo{
		NextCaseIDFn: func(ctx context.Context, gotOrg uuid.UUID) (int64, error) { return 7, nil },
	}
	h := newEntryHandler(s, entries)

	body := map[string]any{
		"form_schema": s.ID,
		"form_data":   map[string]any{"applicant_name": "Asha Rao"},
	}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/form-entries", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, employee(orgID))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	var dto entryUC.EntryDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if dto.CaseID != 7 || dto.Status != "pending" {
		t.Fatalf("dto mismatch: %+v", dto)
	}
}

func TestEntryCreate_ValidationFailureIs400(t *testing.T) {
	e := newEchoWithValidator()
	orgID := uuid.New()
	h := newEntryHandler(entrySchema(orgID), &entrymock.Repo{})

	body := map[string]any{"form_data": map[string]any{}}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/form-entries", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, employee(orgID))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "applicant_name" {
		t.Fatalf("expected applicant_name detail, got %+v", resp)
	}
}

func TestEntryCreate_DuplicateIs409(t *testing.T) {
	e := newEchoWithValidator()
	orgID := uuid.New()
	existing := []entryDomain.FormEntry{{
		ID:       uuid.New(),
		FormData: map[string]any{"applicant_name": "Asha Rao"},
	}}
	entries := &entrymock.Repo{
		FindFn: func(ctx context.Context, f entryDomain.Filter) ([]entryDomain.FormEntry, error) {
			return existing, nil
		},
	}
	h := newEntryHandler(entrySchema(orgID), entries)

	body := map[string]any{"form_data": map[string]any{"applicant_name": "Asha Rao"}}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/form-entries", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, employee(orgID))

	if err := h.Create(c); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409, body %s", rec.Code, rec.Body.String())
	}
}

func TestEntryVerify_EmployeeIs403(t *testing.T) {
	e := newEchoWithValidator()
	orgID := uuid.New()
	h := newEntryHandler(entrySchema(orgID), &entrymock.Repo{})

	id := uuid.New()
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/form-entries/"+id.String()+"/verify", mustJSON(map[string]any{}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, employee(orgID))
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	if err := h.Verify(c); err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestEntryAdvancedFilter_ReturnsEnvelope(t *testing.T) {
	e := newEchoWithValidator()
	orgID := uuid.New()
	s := entrySchema(orgID)
	now := time.Now().UTC()

	entries := &entrymock.Repo{
		FindFn: func(ctx context.Context, f entryDomain.Filter) ([]entryDomain.FormEntry, error) {
			return []entryDomain.FormEntry{
				{ID: uuid.New(), CaseID: 1, OrganizationID: orgID, FormSchemaID: s.ID, TATStartTime: now},
			}, nil
		},
	}
	h := newEntryHandler(s, entries)

	admin := &account.User{ID: uuid.New(), Role: account.RoleAdmin, OrganizationID: &orgID, IsActive: true}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/form-entries/advanced-filter", mustJSON(map[string]any{"page": 1}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, admin)

	if err := h.AdvancedFilter(c); err != nil {
		t.Fatalf("AdvancedFilter error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var page entryUC.FilterPage
	if err := json.Unmarshal(rec.Body.Bytes(), &page); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if page.Count != 1 || len(page.Results) != 1 {
		t.Fatalf("envelope mismatch: %+v", page)
	}
	if page.Next != nil || page.Previous != nil {
		t.Fatalf("single page should have no links: %+v", page)
	}
}
