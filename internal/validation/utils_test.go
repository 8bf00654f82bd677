package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Name  string   `json:"name" validate:"required,min=2,max=80"`
	Email string   `json:"email" validate:"required,email"`
	Level string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Slug  string   `json:"slug" validate:"omitempty,slug"`
	Tags  []string `json:"tags" validate:"max=2"`
}

func (r *signupRequest) Validate() error {
	return Struct(r)
}

type customRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *customRequest) Validate() error {
	if r.Password != r.ConfirmPassword {
		return CustomValidationErrors{{Field: "confirm_password", Message: "must match password"}}
	}
	return nil
}

func newContext(body string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return e.NewContext(req, httptest.NewRecorder())
}

func fieldErrorsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	out := map[string]string{}
	for _, fe := range httpErr.Errors {
		out[fe.Field] = fe.Error
	}
	return out
}

func TestBindAndValidate_Valid(t *testing.T) {
	req := &signupRequest{}
	err := BindAndValidate(newContext(`{"name":"Ada","email":"ada@example.com","level":"beginner","slug":"line-follower"}`), req)
	require.NoError(t, err)
	assert.Equal(t, "Ada", req.Name)
}

func TestBindAndValidate_FieldErrorsUseJSONNames(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":"A","email":"nope","level":"expert","slug":"Bad Slug","tags":["a","b","c"]}`), &signupRequest{})

	fields := fieldErrorsOf(t, err)
	assert.Equal(t, "must be at least 2 characters", fields["name"])
	assert.Equal(t, "must be a valid email address", fields["email"])
	assert.Equal(t, "must be one of: beginner intermediate advanced", fields["level"])
	assert.Equal(t, "must contain only lowercase letters, digits and dashes", fields["slug"])
	assert.Equal(t, "must not exceed 2 items", fields["tags"])
}

func TestBindAndValidate_MalformedJSON(t *testing.T) {
	err := BindAndValidate(newContext(`{"name":`), &signupRequest{})

	var httpErr *errs.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Empty(t, httpErr.Errors)
	assert.NotContains(t, httpErr.Message, "code=")
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	err := BindAndValidate(newContext(`{"password":"a","confirm_password":"b"}`), &customRequest{})

	fields := fieldErrorsOf(t, err)
	assert.Equal(t, "must match password", fields["confirm_password"])
}

func TestIsValidUUID(t *testing.T) {
	assert.True(t, IsValidUUID("7f1d2f5e-51a6-4d2b-9b4f-0f2b1c9d8e7a"))
	assert.False(t, IsValidUUID("not-a-uuid"))
}
