package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/lib/storage"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadService_Upload(t *testing.T) {
	store := &fakeStore{}
	svc := NewUploadService(store)

	res, err := svc.Upload(context.Background(), actor(model.RoleStudent), "wiring.pdf", strings.NewReader("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, "x/wiring.pdf", res.Path)
	assert.Equal(t, []string{"wiring.pdf"}, store.saved)
}

func TestUploadService_MapsStorageErrors(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{storage.ErrUnsupportedType, http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{storage.ErrTooLarge, http.StatusRequestEntityTooLarge, ""},
		{storage.ErrEmpty, http.StatusBadRequest, "EMPTY_FILE"},
		{fmt.Errorf("%w: bad header", storage.ErrDecode), http.StatusBadRequest, "INVALID_IMAGE"},
		{fmt.Errorf("%w: 20000x20000", storage.ErrImageTooLarge), http.StatusBadRequest, "IMAGE_TOO_LARGE"},
	}

	for _, tc := range cases {
		svc := NewUploadService(&fakeStore{saveErr: tc.err})
		_, err := svc.Upload(context.Background(), actor(model.RoleStudent), "f", strings.NewReader("x"))
		requireHTTPError(t, err, tc.status, tc.code)
	}

	svc := NewUploadService(&fakeStore{saveErr: errBoom})
	_, err := svc.Upload(context.Background(), actor(model.RoleStudent), "f", strings.NewReader("x"))
	assert.ErrorIs(t, err, errBoom)
}

func TestUploadService_Delete(t *testing.T) {
	ctx := context.Background()

	require.NoError(t, NewUploadService(&fakeStore{}).Delete(ctx, &model.DeleteUploadRequest{Path: "20260402/a.pdf"}))

	err := NewUploadService(&fakeStore{deleteErr: storage.ErrNotFound}).Delete(ctx, &model.DeleteUploadRequest{Path: "nope"})
	requireHTTPError(t, err, http.StatusNotFound, "")

	err = NewUploadService(&fakeStore{deleteErr: storage.ErrInvalidPath}).Delete(ctx, &model.DeleteUploadRequest{Path: "../etc"})
	requireHTTPError(t, err, http.StatusBadRequest, "INVALID_PATH")
}
