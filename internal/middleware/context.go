package middleware

import (
	"github.com/elanurleylek/robosphere-sub000/internal/logger"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/rs/zerolog"
)

const (
	UserIDKey    = "user_id"
	UserRoleKey  = "user_role"
	UserEmailKey = "user_email"
	ActorKey     = "actor"
	LoggerKey    = "logger"
)

// ContextEnhancer builds the request-scoped logger. The logger is stored
// both on the Echo context and in the request context, so services can
// reach it through zerolog.Ctx.
type ContextEnhancer struct {
	server *server.Server
}

func NewContextEnhancer(s *server.Server) *ContextEnhancer {
	return &ContextEnhancer{server: s}
}

func (ce *ContextEnhancer) EnhanceContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			contextLogger := ce.server.Logger.With().
				Str("request_id", GetRequestID(c)).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("ip", c.RealIP()).
				Logger()

			if txn := newrelic.FromContext(c.Request().Context()); txn != nil {
				contextLogger = logger.WithTraceContext(contextLogger, txn)
			}

			setLogger(c, contextLogger)
			return next(c)
		}
	}
}

// setActor records the authenticated caller and adds the user fields to
// the request logger.
func setActor(c echo.Context, actor *model.Actor) {
	c.Set(ActorKey, actor)
	c.Set(UserIDKey, actor.ID.String())
	c.Set(UserRoleKey, string(actor.Role))
	c.Set(UserEmailKey, actor.Email)

	enriched := GetLogger(c).With().
		Str("user_id", actor.ID.String()).
		Str("user_role", string(actor.Role)).
		Logger()
	setLogger(c, enriched)
}

func setLogger(c echo.Context, l zerolog.Logger) {
	c.Set(LoggerKey, &l)
	c.SetRequest(c.Request().WithContext(l.WithContext(c.Request().Context())))
}

// GetActor returns the authenticated caller or nil for anonymous requests.
func GetActor(c echo.Context) *model.Actor {
	if actor, ok := c.Get(ActorKey).(*model.Actor); ok {
		return actor
	}
	return nil
}

func GetUserID(c echo.Context) string {
	if userID, ok := c.Get(UserIDKey).(string); ok {
		return userID
	}
	return ""
}

// GetLogger returns the request logger, or a no-op logger when
// EnhanceContext did not run.
func GetLogger(c echo.Context) *zerolog.Logger {
	if l, ok := c.Get(LoggerKey).(*zerolog.Logger); ok {
		return l
	}
	l := zerolog.Nop()
	return &l
}
