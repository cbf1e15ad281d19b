package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	domain "verifyme-backend/internal/domain/account"
	"verifyme-backend/internal/testutil/accountmock"
	accountUC "verifyme-backend/internal/usecase/account"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

func newAuthHandler(users *accountmock.UserRepo, orgs *accountmock.OrgRepo) *AuthHandler {
	tokens := accountUC.NewTokenIssuer("handler-test-secret", time.Hour)
	return NewAuthHandler(accountUC.NewUsecase(users, orgs, tokens))
}

func TestLogin_HandlerSuccess(t *testing.T) {
	e := newEchoWithValidator()

	// mint a user through the usecase so hash and salt line up
	tokens := accountUC.NewTokenIssuer("handler-test-secret", time.Hour)
	var stored *domain.User
	users := &accountmock.UserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if stored != nil && stored.Email == email {
				return stored, nil
			}
			return nil, gorm.ErrRecordNotFound
		},
		CreateFn: func(ctx context.Context, u *domain.User) error {
			stored = u
			return nil
		},
	}
	orgs := &accountmock.OrgRepo{
		GetByNameFn: func(ctx context.Context, name string) (*domain.Organization, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	uc := accountUC.NewUsecase(users, orgs, tokens)
	super := &domain.User{ID: uuid.New(), Role: domain.RoleSuperAdmin, IsActive: true}
	if _, err := uc.CreateOrganization(context.Background(), super, accountUC.CreateOrganizationInput{
		Name:          "acme",
		AdminEmail:    "boss@acme.example",
		AdminPassword: "longenough",
	}); err != nil {
		t.Fatalf("seed org: %v", err)
	}

	h := NewAuthHandler(uc)
	body := map[string]any{"email": "boss@acme.example", "password": "longenough"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/auth/login", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
	var dto accountUC.TokenDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &dto); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if dto.Token == "" || dto.User.Role != domain.RoleAdmin {
		t.Fatalf("dto mismatch: %+v", dto)
	}
}

func TestLogin_BadCredentialsIs401(t *testing.T) {
	e := newEchoWithValidator()
	users := &accountmock.UserRepo{
		GetByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	h := newAuthHandler(users, &accountmock.OrgRepo{})

	body := map[string]any{"email": "nobody@example.com", "password": "whatever"}
	req := httptest.NewRequest(stdhttp.MethodPost, "/api/auth/login", mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestLogin_MissingFieldsIs422(t *testing.T) {
	e := newEchoWithValidator()
	h := newAuthHandler(&accountmock.UserRepo{}, &accountmock.OrgRepo{})

	req := httptest.NewRequest(stdhttp.MethodPost, "/api/auth/login", mustJSON(map[string]any{"email": "not-an-email"}))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Login(c); err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body %s", rec.Code, rec.Body.String())
	}
}
