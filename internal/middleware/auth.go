package middleware

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/labstack/echo/v4"
)

// Authenticator resolves a bearer token to the calling user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

type AuthMiddleware struct {
	server *server.Server
	auth   Authenticator
}

func NewAuthMiddleware(s *server.Server, auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		server: s,
		auth:   auth,
	}
}

var errNoToken = errs.NewUnauthorizedError("Unauthorized", false)

// Protect rejects requests without a valid bearer token for an existing user.
func (a *AuthMiddleware) Protect(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		token, ok := bearerToken(c)
		if !ok {
			GetLogger(c).Warn().
				Str("function", "Protect").
				Dur("duration", time.Since(start)).
				Msg("missing bearer token")
			return errNoToken
		}

		actor, err := a.auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			GetLogger(c).Warn().
				Err(err).
				Str("function", "Protect").
				Dur("duration", time.Since(start)).
				Msg("authentication failed")
			return err
		}

		setActor(c, actor)

		GetLogger(c).Debug().
			Str("function", "Protect").
			Dur("duration", time.Since(start)).
			Msg("user authenticated successfully")

		return next(c)
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// the request through anonymously otherwise.
func (a *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c)
		if !ok {
			return next(c)
		}

		actor, err := a.auth.Authenticate(c.Request().Context(), token)
		if err != nil {
			var httpErr *errs.HTTPError
			if !errors.As(err, &httpErr) {
				GetLogger(c).Error().Err(err).Msg("optional authentication failed")
			}
			return next(c)
		}

		setActor(c, actor)
		return next(c)
	}
}

// RequireRole must run after Protect.
func (a *AuthMiddleware) RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := GetActor(c)
			if actor == nil {
				return errNoToken
			}
			if !slices.Contains(roles, actor.Role) {
				GetLogger(c).Warn().
					Str("function", "RequireRole").
					Msg("role not permitted")
				return errs.NewForbiddenError("You do not have permission to perform this action", false)
			}
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
