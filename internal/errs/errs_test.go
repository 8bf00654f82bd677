package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "BAD_REQUEST", MakeUpperCaseWithUnderscores("Bad Request"))
	assert.Equal(t, "TOO_MANY_REQUESTS", MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)))
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *HTTPError
		status int
		code   string
	}{
		{"unauthorized", NewUnauthorizedError("no token", false), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"forbidden", NewForbiddenError("nope", false), http.StatusForbidden, "FORBIDDEN"},
		{"bad request", NewBadRequestError("bad", false, nil, nil, nil), http.StatusBadRequest, "BAD_REQUEST"},
		{"bad request custom code", NewBadRequestError("dup", true, Code("USER_ALREADY_EXISTS"), nil, nil), http.StatusBadRequest, "USER_ALREADY_EXISTS"},
		{"not found", NewNotFoundError("missing", false, nil), http.StatusNotFound, "NOT_FOUND"},
		{"conflict", NewConflictError("taken", true, nil), http.StatusConflict, "CONFLICT"},
		{"too many", NewTooManyRequestsError("slow down"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS"},
		{"unavailable", NewServiceUnavailableError("ai off", Code("AI_UNAVAILABLE")), http.StatusServiceUnavailable, "AI_UNAVAILABLE"},
		{"too large", NewPayloadTooLargeError("big"), http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"internal", NewInternalServerError(), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.code, tt.err.Code)
		})
	}
}

func TestHTTPError_IsAndAs(t *testing.T) {
	wrapped := fmt.Errorf("service: %w", NewNotFoundError("course not found", true, nil))

	assert.True(t, errors.Is(wrapped, &HTTPError{}))

	var httpErr *HTTPError
	require.True(t, errors.As(wrapped, &httpErr))
	assert.Equal(t, "course not found", httpErr.Error())
}

func TestHTTPError_WithMessageDoesNotMutate(t *testing.T) {
	base := NewForbiddenError("Forbidden", false)
	custom := base.WithMessage("only the author can edit this project")

	assert.Equal(t, "Forbidden", base.Message)
	assert.Equal(t, "only the author can edit this project", custom.Message)
	assert.Equal(t, base.Status, custom.Status)

	recoded := base.WithCode("NOT_OWNER")
	assert.Equal(t, "FORBIDDEN", base.Code)
	assert.Equal(t, "NOT_OWNER", recoded.Code)
}

func TestValidationError(t *testing.T) {
	err := ValidationError(errors.New("title is required"))
	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "Validation failed: title is required", err.Message)
}
