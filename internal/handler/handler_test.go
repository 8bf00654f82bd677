package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/middleware"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/elanurleylek/robosphere-sub000/internal/validation"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *server.Server {
	l := zerolog.New(io.Discard)
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "test"},
			Upload:  &config.UploadConfig{PublicPath: "/uploads", MaxBytes: 1 << 20},
		},
		Logger: &l,
	}
}

// newTestEcho wires the global error handler so responses carry the
// errs.HTTPError shape.
func newTestEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errs.HTTPError {
	t.Helper()
	var body errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

type echoRequest struct {
	ID   string `param:"id" json:"-" validate:"required,uuid"`
	Name string `json:"name" validate:"required"`
}

func (r *echoRequest) Validate() error {
	return validation.Struct(r)
}

func TestHandle_BindsValidatesAndWritesJSON(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	h := NewHandler(s)

	e.PUT("/things/:id", Handle(h, func(c echo.Context, req *echoRequest) (map[string]string, error) {
		return map[string]string{"id": req.ID, "name": req.Name}, nil
	}, http.StatusOK))

	id := "7d9c7a5e-3c1f-4a55-9a53-1f7a0e4c2b10"
	rec := serve(e, http.MethodPut, "/things/"+id, `{"name":"servo"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, id, got["id"])
	assert.Equal(t, "servo", got["name"])
}

func TestHandle_ValidationFailure(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	called := false

	e.PUT("/things/:id", Handle(NewHandler(s), func(c echo.Context, req *echoRequest) (*echoRequest, error) {
		called = true
		return req, nil
	}, http.StatusOK))

	rec := serve(e, http.MethodPut, "/things/not-a-uuid", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)

	body := decodeError(t, rec)
	fields := map[string]bool{}
	for _, fe := range body.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)

	var seen []*echoRequest
	e.PUT("/things/:id", Handle(NewHandler(s), func(c echo.Context, req *echoRequest) (*echoRequest, error) {
		seen = append(seen, req)
		return req, nil
	}, http.StatusOK))

	serve(e, http.MethodPut, "/things/7d9c7a5e-3c1f-4a55-9a53-1f7a0e4c2b10", `{"name":"first"}`)
	serve(e, http.MethodPut, "/things/0b8f2a9e-77d1-4a3b-8f62-5c1de0a4b7f3", `{"name":"second"}`)

	require.Len(t, seen, 2)
	assert.NotSame(t, seen[0], seen[1])
	assert.Equal(t, "first", seen[0].Name)
}

func TestHandle_ServiceErrorGoesThroughErrorHandler(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)

	e.GET("/fail", Handle(NewHandler(s), func(c echo.Context, _ *model.EmptyRequest) (*model.MessageResponse, error) {
		return nil, errs.NewForbiddenError("Only the author may do that", true)
	}, http.StatusOK))

	rec := serve(e, http.MethodGet, "/fail", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only the author may do that", decodeError(t, rec).Message)
}

func TestHandleNoContent(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)

	e.DELETE("/things/:id", HandleNoContent(NewHandler(s), func(c echo.Context, req *model.IDRequest) error {
		return nil
	}, http.StatusNoContent))

	rec := serve(e, http.MethodDelete, "/things/7d9c7a5e-3c1f-4a55-9a53-1f7a0e4c2b10", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(e, http.MethodDelete, "/things/42", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleFile(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)

	e.GET("/export", HandleFile(NewHandler(s), func(c echo.Context, _ *model.EmptyRequest) ([]byte, error) {
		return []byte("# Transcript\n"), nil
	}, http.StatusOK, TranscriptFilename, TranscriptContentType))

	rec := serve(e, http.MethodGet, "/export", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, TranscriptContentType, rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), TranscriptFilename)
	assert.Equal(t, "# Transcript\n", rec.Body.String())
}

func TestNewRequest(t *testing.T) {
	a := newRequest[*model.IDRequest]()
	b := newRequest[*model.IDRequest]()
	require.NotNil(t, a)
	assert.NotSame(t, a, b)
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks []dependencyCheck
		code   int
		status string
	}{
		{"all healthy", []dependencyCheck{{"database", true, ok}, {"mongo", true, ok}, {"redis", false, ok}}, http.StatusOK, "healthy"},
		{"redis down", []dependencyCheck{{"database", true, ok}, {"mongo", true, ok}, {"redis", false, down}}, http.StatusOK, "degraded"},
		{"mongo down", []dependencyCheck{{"database", true, ok}, {"mongo", true, down}, {"redis", false, down}}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer()
			h := &HealthHandler{Handler: NewHandler(s), checks: tt.checks}
			e := newTestEcho(s)
			e.GET("/status", h.CheckHealth)

			rec := serve(e, http.MethodGet, "/status", "")
			assert.Equal(t, tt.code, rec.Code)

			var body struct {
				Status string                            `json:"status"`
				Checks map[string]map[string]interface{} `json:"checks"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.status, body.Status)
			assert.Len(t, body.Checks, 3)
		})
	}
}

func TestOpenAPI(t *testing.T) {
	s := newTestServer()
	e := newTestEcho(s)
	e.GET("/docs", NewOpenAPIHandler(s).ServeOpenAPIUI)

	rec := serve(e, http.MethodGet, "/docs", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Body.String(), "/static/openapi.json")
}
