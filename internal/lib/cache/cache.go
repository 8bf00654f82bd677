// Package cache is a Redis-backed JSON cache for read-heavy endpoints.
//
// Keys live under a namespace whose version is stored in Redis. Bumping
// the version orphans every key of the namespace at once; orphans expire
// through their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is not found in the cache.
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss reports whether err is a cache miss.
func IsCacheMiss(err error) bool {
	var miss ErrCacheMiss
	return errors.As(err, &miss)
}

// Config holds the cache settings.
type Config struct {
	// DefaultTTL applies when Set is called with a zero TTL.
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys.
	Prefix string
}

// RedisCache stores JSON values in Redis. A nil *RedisCache is a valid,
// always-missing cache.
type RedisCache struct {
	client *redis.Client
	config Config
}

// New returns a cache over client. It returns nil when client is nil.
func New(client *redis.Client, config Config) *RedisCache {
	if client == nil {
		return nil
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = 2 * time.Minute
	}
	return &RedisCache{client: client, config: config}
}

// Get loads key into dst.
func (r *RedisCache) Get(ctx context.Context, key string, dst any) error {
	if r == nil {
		return ErrCacheMiss{Key: key}
	}

	value, err := r.client.Get(ctx, r.config.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss{Key: key}
		}
		return err
	}

	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("decoding cached %s: %w", key, err)
	}
	return nil
}

// Set stores value as JSON under key.
func (r *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if r == nil {
		return nil
	}
	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s for cache: %w", key, err)
	}

	return r.client.Set(ctx, r.config.Prefix+key, data, ttl).Err()
}

// Delete removes key.
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if r == nil {
		return nil
	}
	return r.client.Del(ctx, r.config.Prefix+key).Err()
}

func (r *RedisCache) versionKey(namespace string) string {
	return r.config.Prefix + "ns:" + namespace + ":version"
}

// Version returns the current version of namespace, 0 if never bumped.
func (r *RedisCache) Version(ctx context.Context, namespace string) (int64, error) {
	if r == nil {
		return 0, nil
	}

	v, err := r.client.Get(ctx, r.versionKey(namespace)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

// Bump invalidates every key built by Key for namespace.
func (r *RedisCache) Bump(ctx context.Context, namespace string) error {
	if r == nil {
		return nil
	}
	return r.client.Incr(ctx, r.versionKey(namespace)).Err()
}

// Key builds a versioned key "<namespace>:v<version>:<suffix>".
func (r *RedisCache) Key(ctx context.Context, namespace, suffix string) (string, error) {
	v, err := r.Version(ctx, namespace)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d:%s", namespace, v, suffix), nil
}
