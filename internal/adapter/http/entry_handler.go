package http

import (
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"

	"verifyme-backend/internal/adapter/middleware"
	entryUC "verifyme-backend/internal/usecase/entry"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type EntryHandler struct {
	uc        *entryUC.Usecase
	submitter *entryUC.Submitter
}

func NewEntryHandler(uc *entryUC.Usecase, submitter *entryUC.Submitter) *EntryHandler {
	return &EntryHandler{uc: uc, submitter: submitter}
}

// Create accepts either a plain JSON body or a multipart form whose
// "payload" part carries the same JSON and whose file parts are named
// after the file fields they fill. Multipart submissions go through the
// upload orchestration.
func (h *EntryHandler) Create(c echo.Context) error {
	actor := middleware.CurrentUser(c)

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return h.createMultipart(c)
	}

	var req entryUC.CreateEntryInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Create(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *EntryHandler) createMultipart(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid multipart form"})
	}

	var req entryUC.CreateEntryInput
	payload := c.FormValue("payload")
	if payload == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing payload part"})
	}
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payload json"})
	}

	var files []entryUC.UploadFile
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for field, headers := range form.File {
		for _, fh := range headers {
			src, err := fh.Open()
			if err != nil {
				return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unreadable file part " + field})
			}
			opened = append(opened, src)
			files = append(files, entryUC.UploadFile{
				FieldName:   field,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Body:        src,
			})
		}
	}

	dto, err := h.submitter.Submit(c.Request().Context(), middleware.CurrentUser(c), req, files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *EntryHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EntryHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	var req entryUC.UpdateEntryInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Update(c.Request().Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EntryHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	if err := h.uc.Delete(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *EntryHandler) Complete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	dto, err := h.uc.Complete(c.Request().Context(), middleware.CurrentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type verifyReq struct {
	VerificationNotes string `json:"verification_notes"`
}

func (h *EntryHandler) Verify(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid entry id"})
	}
	var req verifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Verify(c.Request().Context(), middleware.CurrentUser(c), id, req.VerificationNotes)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *EntryHandler) MyEntries(c echo.Context) error {
	list, err := h.uc.MyEntries(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(list))
}

// AdvancedFilter is a POST because the filter body nests business
// form_data filters that do not fit a query string.
func (h *EntryHandler) AdvancedFilter(c echo.Context) error {
	var req entryUC.FilterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	page, err := h.uc.AdvancedFilter(c.Request().Context(), middleware.CurrentUser(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, page)
}

func (h *EntryHandler) Counts(c echo.Context) error {
	counts, err := h.uc.Counts(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, counts)
}

func (h *EntryHandler) Duplicates(c echo.Context) error {
	groups, err := h.uc.Duplicates(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(groups))
}

func (h *EntryHandler) ListBySchema(c echo.Context) error {
	schemaID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid schema id"})
	}
	list, err := h.uc.ListBySchema(c.Request().Context(), middleware.CurrentUser(c), schemaID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, listOf(list))
}
