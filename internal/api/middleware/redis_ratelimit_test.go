package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"customer-service/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLimiter(t *testing.T, rps float64) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	limiter := NewRedisRateLimiter(client, config.RateLimitConfig{Enabled: true, Backend: "redis", RPS: rps}, logger)

	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return limiter.Middleware(ok), mr
}

func hit(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRedisRateLimiter(t *testing.T) {
	t.Run("blocks once the window is used up", func(t *testing.T) {
		h, mr := setupRedisLimiter(t, 2)

		assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1000"))
		assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1000"))
		assert.Equal(t, http.StatusTooManyRequests, hit(h, "127.0.0.1:1000"))
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.9:1000"), "other clients have their own window")

		ttl := mr.TTL(redisKeyPrefix + "127.0.0.1")
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Second)
	})

	t.Run("a new window resets the count", func(t *testing.T) {
		h, mr := setupRedisLimiter(t, 1)

		require.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1000"))
		require.Equal(t, http.StatusTooManyRequests, hit(h, "127.0.0.1:1000"))

		mr.FastForward(2 * time.Second)

		assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1000"))
	})

	t.Run("redis outage lets requests through", func(t *testing.T) {
		h, mr := setupRedisLimiter(t, 1)
		mr.Close()

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1000"))
		}
	})

	t.Run("rejection carries retry hint", func(t *testing.T) {
		h, _ := setupRedisLimiter(t, 1)
		hit(h, "127.0.0.1:1000")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "127.0.0.1:1000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.JSONEq(t, `{"error":{"message":"Rate limit exceeded"}}`, rec.Body.String())
	})
}
