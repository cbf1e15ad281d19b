package http

import (
	"errors"
	"net/http"

	accountDomain "verifyme-backend/internal/domain/account"
	entryDomain "verifyme-backend/internal/domain/entry"
	schemaDomain "verifyme-backend/internal/domain/schema"

	"verifyme-backend/internal/adapter/storage"
	accountUC "verifyme-backend/internal/usecase/account"
	entryUC "verifyme-backend/internal/usecase/entry"
	schemaUC "verifyme-backend/internal/usecase/schema"

	"github.com/labstack/echo/v4"
)

// writeError maps domain errors onto HTTP codes. Anything unmapped is a
// 400 so usecase validation messages reach the client.
func writeError(c echo.Context, err error) error {
	var verr *schemaDomain.ValidationError

	switch {
	case errors.Is(err, schemaDomain.ErrVersionConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entryDomain.ErrDuplicateEntry):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "probable duplicate entry; resubmit with allow_duplicate to override"})
	case errors.Is(err, entryDomain.ErrUniqueField):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, schemaUC.ErrDuplicateName):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, accountDomain.ErrDuplicateEmail):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, schemaDomain.ErrNotFound),
		errors.Is(err, entryDomain.ErrNotFound),
		errors.Is(err, accountDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})

	case errors.Is(err, schemaUC.ErrForbidden),
		errors.Is(err, entryUC.ErrForbidden),
		errors.Is(err, accountUC.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})

	case errors.Is(err, accountDomain.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: []FieldError{{Field: verr.Field, Message: verr.DisplayName + " " + verr.Reason}},
		})

	case errors.Is(err, storage.ErrFileTooLarge),
		errors.Is(err, storage.ErrInvalidFileType),
		errors.Is(err, schemaDomain.ErrUnknownField),
		errors.Is(err, schemaDomain.ErrDuplicateField),
		errors.Is(err, schemaDomain.ErrMaxFields):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	default:
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
