package http

import (
	"net/http"

	"verifyme-backend/internal/adapter/middleware"
	domain "verifyme-backend/internal/domain/account"
	accountUC "verifyme-backend/internal/usecase/account"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct{ uc *accountUC.Usecase }

func NewAuthHandler(uc *accountUC.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.Login(c.Request().Context(), accountUC.LoginInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

// Me echoes the authenticated profile so clients can refresh role and
// organization after a token round-trip.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	return c.JSON(http.StatusOK, u)
}

type createOrgReq struct {
	Name          string `json:"name"         validate:"required"`
	DisplayName   string `json:"display_name"`
	AdminEmail    string `json:"admin_email"    validate:"omitempty,email"`
	AdminPassword string `json:"admin_password" validate:"omitempty,min=8"`
	AdminFirst    string `json:"admin_first_name"`
	AdminLast     string `json:"admin_last_name"`
}

func (h *AuthHandler) CreateOrganization(c echo.Context) error {
	var req createOrgReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	org, err := h.uc.CreateOrganization(c.Request().Context(), middleware.CurrentUser(c), accountUC.CreateOrganizationInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, org)
}

func (h *AuthHandler) ListOrganizations(c echo.Context) error {
	orgs, err := h.uc.ListOrganizations(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(orgs))
}

type createUserReq struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"       validate:"omitempty,role"`
}

func (h *AuthHandler) CreateEmployee(c echo.Context) error {
	orgID, err := uuid.Parse(c.Param("org_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid org_id"})
	}
	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.CreateEmployee(c.Request().Context(), middleware.CurrentUser(c), orgID, accountUC.CreateUserInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      domain.Role(req.Role),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AuthHandler) ListEmployees(c echo.Context) error {
	orgID, err := uuid.Parse(c.Param("org_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid org_id"})
	}
	role := domain.Role(c.QueryParam("role"))
	list, err := h.uc.ListEmployees(c.Request().Context(), middleware.CurrentUser(c), orgID, role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(list))
}
