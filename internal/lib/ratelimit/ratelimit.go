// Package ratelimit implements a Redis-backed sliding window rate limiter.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Info describes the state of a key after a call to Allow.
type Info struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	Allowed   bool
}

// Config holds configuration for the limiter.
type Config struct {
	// Client is the Redis client to use.
	Client *redis.Client
	// Limit is the maximum number of requests allowed in the window.
	Limit int
	// Window is the length of the sliding window.
	Window time.Duration
	// Prefix is the key prefix for Redis keys.
	Prefix string
}

// Limiter counts requests per key in a Redis sorted set scored by arrival
// time (microseconds). Entries older than the window are evicted on every
// call, so the count always covers exactly the last Window.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// New validates config and creates a Limiter.
func New(config Config) (*Limiter, error) {
	if config.Client == nil {
		return nil, errors.New("redis client is required")
	}
	if config.Limit <= 0 {
		return nil, errors.New("limit must be greater than 0")
	}
	if config.Window <= 0 {
		return nil, errors.New("window must be greater than 0")
	}

	return &Limiter{
		client: config.Client,
		limit:  config.Limit,
		window: config.Window,
		prefix: config.Prefix,
		now:    time.Now,
	}, nil
}

// allowScript evicts expired entries, admits the request when under the
// limit and reports {allowed, count, oldest score}. ZRANGE returns scores as
// strings whose format depends on the server (miniredis prints
// "1.7776368e+15"), so the score goes back as a Lua number, which Redis
// turns into an integer reply. Microsecond timestamps are below 2^53 and
// survive the double exactly.
var allowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = ARGV[1]
	local window_start = ARGV[2]
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local current = redis.call('ZCARD', key)
	local allowed = 0
	if current < limit then
		redis.call('ZADD', key, now, member)
		current = current + 1
		allowed = 1
	end
	redis.call('PEXPIRE', key, window_ms)

	local oldest = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
	local oldest_score = tonumber(now)
	if oldest[2] then
		oldest_score = tonumber(oldest[2])
	end

	return {allowed, current, oldest_score}
`)

// Allow records a request for key and reports whether it is within the limit.
// Rejected requests are not recorded.
func (l *Limiter) Allow(ctx context.Context, key string) (*Info, error) {
	now := l.now()
	nowMicros := now.UnixMicro()
	windowStart := now.Add(-l.window).UnixMicro()

	result, err := allowScript.Run(ctx, l.client, []string{l.prefix + key},
		strconv.FormatInt(nowMicros, 10),
		strconv.FormatInt(windowStart, 10),
		l.limit,
		l.window.Milliseconds(),
		fmt.Sprintf("%d-%s", nowMicros, uuid.NewString()),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}
	if len(result) != 3 {
		return nil, errors.New("unexpected redis script result")
	}

	count := int(result[1])
	remaining := max(l.limit-count, 0)

	return &Info{
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   time.UnixMicro(result[2]).UTC().Add(l.window),
		Allowed:   result[0] == 1,
	}, nil
}

// Reset removes all rate limit data for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}
