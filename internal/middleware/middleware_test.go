package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, redisClient *redis.Client) *server.Server {
	t.Helper()
	l := zerolog.New(io.Discard)
	return &server.Server{
		Config: &config.Config{
			Primary:   config.Primary{Env: "test"},
			Server:    config.ServerConfig{CORSAllowedOrigins: []string{"*"}},
			Upload:    &config.UploadConfig{MaxBytes: 1 << 20},
			RateLimit: &config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute},
		},
		Logger: &l,
		Redis:  redisClient,
	}
}

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func ok(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func requireHTTPError(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	httpErr, isHTTP := err.(*errs.HTTPError)
	require.True(t, isHTTP, "expected *errs.HTTPError, got %T: %v", err, err)
	require.Equal(t, status, httpErr.Status)
	return httpErr
}
