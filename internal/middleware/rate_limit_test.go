package middleware

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRateLimit(t *testing.T) *RateLimitMiddleware {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRateLimitMiddleware(newTestServer(t, client))
}

func TestLimit_RejectsOverQuota(t *testing.T) {
	rl := newTestRateLimit(t)
	h := rl.Limit(RateLimitBucketAuth)(ok)

	for i := range 2 {
		c, rec := newContext(http.MethodPost, "/api/auth/login")
		require.NoError(t, h(c))
		assert.Equal(t, "2", rec.Header().Get(HeaderRateLimitLimit))
		assert.Equal(t, strconv.Itoa(1-i), rec.Header().Get(HeaderRateLimitRemaining))
		assert.NotEmpty(t, rec.Header().Get(HeaderRateLimitReset))
	}

	c, rec := newContext(http.MethodPost, "/api/auth/login")
	err := h(c)
	httpErr := requireHTTPError(t, err, http.StatusTooManyRequests)
	assert.Equal(t, "TOO_MANY_REQUESTS", httpErr.Code)
	assert.Equal(t, "0", rec.Header().Get(HeaderRateLimitRemaining))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestLimit_BucketsAreIndependent(t *testing.T) {
	rl := newTestRateLimit(t)

	for range 2 {
		c, _ := newContext(http.MethodPost, "/api/auth/login")
		require.NoError(t, rl.Limit(RateLimitBucketAuth)(ok)(c))
	}

	c, _ := newContext(http.MethodPost, "/api/chat")
	assert.NoError(t, rl.Limit(RateLimitBucketChat)(ok)(c))
}

func TestLimit_KeysAuthenticatedUsersByID(t *testing.T) {
	rl := newTestRateLimit(t)
	h := rl.Limit(RateLimitBucketChat)(ok)

	for range 2 {
		c, _ := newContext(http.MethodPost, "/api/chat")
		require.NoError(t, h(c))
	}

	c, _ := newContext(http.MethodPost, "/api/chat")
	setActor(c, &model.Actor{ID: uuid.New(), Role: model.RoleStudent})
	assert.NoError(t, h(c))
}

func TestLimit_FailsOpen(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	rl := NewRateLimitMiddleware(newTestServer(t, client))
	mr.Close()

	c, rec := newContext(http.MethodPost, "/api/chat")
	require.NoError(t, rl.Limit(RateLimitBucketChat)(ok)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLimit_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimitMiddleware(newTestServer(t, nil))
	h := rl.Limit(RateLimitBucketAuth)(ok)

	for range 5 {
		c, _ := newContext(http.MethodPost, "/api/auth/login")
		require.NoError(t, h(c))
	}
}
