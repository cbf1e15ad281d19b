package http

import (
	"net/http"

	"verifyme-backend/internal/adapter/middleware"
	entryUC "verifyme-backend/internal/usecase/entry"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type FieldFileHandler struct{ submitter *entryUC.Submitter }

func NewFieldFileHandler(submitter *entryUC.Submitter) *FieldFileHandler {
	return &FieldFileHandler{submitter: submitter}
}

// Upload attaches one file to an existing entry: multipart form with a
// "file" part plus field_name and optional description values.
func (h *FieldFileHandler) Upload(c echo.Context) error {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	fieldName := c.FormValue("field_name")
	if fieldName == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing field_name"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing file part"})
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file"})
	}
	defer src.Close()

	ff, err := h.submitter.Attach(c.Request().Context(), middleware.CurrentUser(c), entryID, c.FormValue("description"), entryUC.UploadFile{
		FieldName:   fieldName,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        src,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, ff)
}

func (h *FieldFileHandler) List(c echo.Context) error {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	files, err := h.submitter.ListFiles(c.Request().Context(), middleware.CurrentUser(c), entryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(files))
}
