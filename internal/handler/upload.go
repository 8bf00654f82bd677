package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/service"
	"github.com/labstack/echo/v4"
)

// UploadFormField is the multipart field carrying the file.
const UploadFormField = "file"

type UploadHandler struct {
	Handler
	uploads *service.UploadService
}

func NewUploadHandler(s *server.Server, uploads *service.UploadService) *UploadHandler {
	return &UploadHandler{
		Handler: NewHandler(s),
		uploads: uploads,
	}
}

func (h *UploadHandler) Upload(c echo.Context, _ *model.EmptyRequest) (*model.UploadResult, error) {
	fh, err := c.FormFile(UploadFormField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, errs.NewBadRequestError(`Multipart field "file" is required`, true, errs.Code("MISSING_FILE"), nil, nil)
		}
		return nil, errs.NewBadRequestError("Invalid multipart form", false, nil, nil, nil)
	}

	if fh.Size > h.uploads.MaxBytes() {
		return nil, errs.NewPayloadTooLargeError(fmt.Sprintf("File exceeds the %d MiB limit", h.uploads.MaxBytes()>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("opening uploaded file: %w", err)
	}
	defer f.Close()

	return h.uploads.Upload(c.Request().Context(), actor(c), fh.Filename, f)
}

func (h *UploadHandler) Delete(c echo.Context, req *model.DeleteUploadRequest) error {
	return h.uploads.Delete(c.Request().Context(), req)
}
