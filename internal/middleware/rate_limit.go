package middleware

import (
	"strconv"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/errs"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/ratelimit"
	"github.com/elanurleylek/robosphere-sub000/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	RateLimitBucketAuth = "auth"
	RateLimitBucketChat = "chat"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitMiddleware enforces per-bucket request quotas. A nil limiter
// (rate limiting disabled or Redis missing) lets every request through.
type RateLimitMiddleware struct {
	server  *server.Server
	limiter *ratelimit.Limiter
}

func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	rl := &RateLimitMiddleware{server: s}

	cfg := s.Config.RateLimit
	if cfg == nil || !cfg.Enabled || s.Redis == nil {
		return rl
	}

	limiter, err := ratelimit.New(ratelimit.Config{
		Client: s.Redis,
		Limit:  cfg.Requests,
		Window: cfg.Window,
		Prefix: "ratelimit:",
	})
	if err != nil {
		s.Logger.Warn().Err(err).Msg("rate limiting disabled")
		return rl
	}
	rl.limiter = limiter

	return rl
}

// Limit counts requests per bucket and caller. Authenticated callers are
// keyed by user ID, everyone else by client IP. Redis failures fail open.
func (r *RateLimitMiddleware) Limit(bucket string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if r.limiter == nil {
			return next
		}

		return func(c echo.Context) error {
			key := bucket + ":ip:" + c.RealIP()
			if userID := GetUserID(c); userID != "" {
				key = bucket + ":user:" + userID
			}

			info, err := r.limiter.Allow(c.Request().Context(), key)
			if err != nil {
				GetLogger(c).Error().Err(err).Str("bucket", bucket).Msg("rate limiter unavailable")
				return next(c)
			}

			h := c.Response().Header()
			h.Set(HeaderRateLimitLimit, strconv.Itoa(info.Limit))
			h.Set(HeaderRateLimitRemaining, strconv.Itoa(info.Remaining))
			h.Set(HeaderRateLimitReset, strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !info.Allowed {
				retryAfter := max(int(time.Until(info.ResetAt).Seconds()), 1)
				h.Set("Retry-After", strconv.Itoa(retryAfter))

				r.RecordRateLimitHit(bucket)
				GetLogger(c).Warn().Str("bucket", bucket).Msg("rate limit exceeded")
				return errs.NewTooManyRequestsError("Too many requests, please try again later")
			}

			return next(c)
		}
	}
}

func (r *RateLimitMiddleware) RecordRateLimitHit(bucket string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]interface{}{
			"bucket": bucket,
			"env":    r.server.Config.Primary.Env,
		})
	}
}
