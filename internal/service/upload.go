package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/storage"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/rs/zerolog"
)

// FileStore persists uploaded files.
type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) (*model.UploadResult, error)
	Delete(rel string) error
	MaxBytes() int64
}

type UploadService struct {
	store FileStore
}

func NewUploadService(store FileStore) *UploadService {
	return &UploadService{store: store}
}

func (s *UploadService) MaxBytes() int64 {
	return s.store.MaxBytes()
}

func (s *UploadService) Upload(ctx context.Context, actor *model.Actor, name string, r io.Reader) (*model.UploadResult, error) {
	result, err := s.store.Save(ctx, name, r)
	if err != nil {
		return nil, s.mapError(err)
	}

	zerolog.Ctx(ctx).Info().
		Str("user_id", actor.ID.String()).
		Str("path", result.Path).
		Str("content_type", result.ContentType).
		Int64("size", result.Size).
		Msg("file uploaded")

	return result, nil
}

func (s *UploadService) Delete(ctx context.Context, req *model.DeleteUploadRequest) error {
	if err := s.store.Delete(req.Path); err != nil {
		return s.mapError(err)
	}

	zerolog.Ctx(ctx).Info().Str("path", req.Path).Msg("file deleted")
	return nil
}

func (s *UploadService) mapError(err error) error {
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		return errs.NewBadRequestError("Unsupported file type. Allowed: jpeg, png, gif, webp, pdf, stl, zip",
			true, errs.Code("UNSUPPORTED_FILE_TYPE"), nil, nil)
	case errors.Is(err, storage.ErrTooLarge):
		return errs.NewPayloadTooLargeError(fmt.Sprintf("File exceeds the %d MiB limit", s.store.MaxBytes()>>20))
	case errors.Is(err, storage.ErrEmpty):
		return errs.NewBadRequestError("The uploaded file is empty", true, errs.Code("EMPTY_FILE"), nil, nil)
	case errors.Is(err, storage.ErrImageTooLarge):
		return errs.NewBadRequestError("The image dimensions are too large", true, errs.Code("IMAGE_TOO_LARGE"), nil, nil)
	case errors.Is(err, storage.ErrDecode):
		return errs.NewBadRequestError("The image could not be decoded", true, errs.Code("INVALID_IMAGE"), nil, nil)
	case errors.Is(err, storage.ErrInvalidPath):
		return errs.NewBadRequestError("Invalid file path", true, errs.Code("INVALID_PATH"), nil, nil)
	case errors.Is(err, storage.ErrNotFound):
		return errs.NewNotFoundError("File not found", true, nil)
	}
	return err
}
