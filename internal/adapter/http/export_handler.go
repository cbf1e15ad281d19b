package http

import (
	"net/http"

	"verifyme-backend/internal/adapter/middleware"
	entryUC "verifyme-backend/internal/usecase/entry"
	exportUC "verifyme-backend/internal/usecase/export"

	"github.com/labstack/echo/v4"
)

type ExportHandler struct{ uc *exportUC.Usecase }

func NewExportHandler(uc *exportUC.Usecase) *ExportHandler { return &ExportHandler{uc: uc} }

// Export streams the filtered entry set as csv, excel or pdf. The body
// is the same advanced-filter request the dashboard sends.
func (h *ExportHandler) Export(c echo.Context) error {
	format := exportUC.Format(c.Param("format"))
	var req entryUC.FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	res, err := h.uc.Export(c.Request().Context(), middleware.CurrentUser(c), format, req)
	if err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+res.Filename+`"`)
	return c.Blob(http.StatusOK, res.ContentType, res.Data)
}
