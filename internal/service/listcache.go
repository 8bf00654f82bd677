package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/lib/cache"
	"github.com/rs/zerolog"
)

// Cache namespaces. Writes bump the namespace, dropping every cached page.
const (
	nsCourses  = "courses"
	nsProjects = "projects"
	nsPosts    = "posts"
)

// listCache serves public list pages from Redis. A nil cache disables it.
type listCache struct {
	cache *cache.RedisCache
	ttl   time.Duration
}

// fetch returns the cached page for filter or calls load and caches its
// result. Cache failures are logged and never fail the request.
func fetch[T any](ctx context.Context, lc listCache, namespace string, filter any, load func() (T, error)) (T, error) {
	logger := zerolog.Ctx(ctx)

	key, ok := lc.key(ctx, namespace, filter)
	if ok {
		var cached T
		err := lc.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !cache.IsCacheMiss(err) {
			logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if ok {
		if err := lc.cache.Set(ctx, key, value, lc.ttl); err != nil {
			logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return value, nil
}

func (lc listCache) key(ctx context.Context, namespace string, filter any) (string, bool) {
	if lc.cache == nil {
		return "", false
	}

	raw, err := json.Marshal(filter)
	if err != nil {
		return "", false
	}
	sum := sha1.Sum(raw)

	key, err := lc.cache.Key(ctx, namespace, hex.EncodeToString(sum[:]))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("namespace", namespace).Msg("cache version lookup failed")
		return "", false
	}
	return key, true
}

func (lc listCache) invalidate(ctx context.Context, namespace string) {
	if err := lc.cache.Bump(ctx, namespace); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("namespace", namespace).Msg("cache invalidation failed")
	}
}
