package service

import (
	"errors"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func requireHTTPError(t *testing.T, err error, status int, code string) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr), "expected *errs.HTTPError, got %v", err)
	require.Equal(t, status, httpErr.Status)
	if code != "" {
		require.Equal(t, code, httpErr.Code)
	}
	return httpErr
}

func actor(role model.Role) *model.Actor {
	return &model.Actor{ID: uuid.New(), Role: role, Email: string(role) + "@robosphere.test"}
}
