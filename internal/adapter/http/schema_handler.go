package http

import (
	"net/http"
	"strconv"

	"verifyme-backend/internal/adapter/middleware"
	domain "verifyme-backend/internal/domain/schema"
	schemaUC "verifyme-backend/internal/usecase/schema"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type SchemaHandler struct{ uc *schemaUC.Usecase }

func NewSchemaHandler(uc *schemaUC.Usecase) *SchemaHandler { return &SchemaHandler{uc: uc} }

func (h *SchemaHandler) Create(c echo.Context) error {
	var req schemaUC.CreateSchemaInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Create(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SchemaHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *SchemaHandler) List(c echo.Context) error {
	activeOnly, _ := strconv.ParseBool(c.QueryParam("active"))
	list, err := h.uc.List(c.Request().Context(), middleware.CurrentUser(c), activeOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(list))
}

// Mutate applies an operation list against expected_version. A stale
// version returns 409 so the client can reload and rebuild its diff.
func (h *SchemaHandler) Mutate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	var req schemaUC.MutateInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Mutate(c.Request().Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type replaceFieldsReq struct {
	ExpectedVersion int                `json:"expected_version"`
	Fields          []domain.FormField `json:"fields_definition"`
}

// ReplaceFields takes a full edited field list and lets the server diff
// it against current state.
func (h *SchemaHandler) ReplaceFields(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	var req replaceFieldsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.ReplaceFields(c.Request().Context(), middleware.CurrentUser(c), id, req.ExpectedVersion, req.Fields)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type duplicateReq struct {
	Name string `json:"name"`
}

func (h *SchemaHandler) Duplicate(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	var req duplicateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Duplicate(c.Request().Context(), middleware.CurrentUser(c), id, req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *SchemaHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	if err := h.uc.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
