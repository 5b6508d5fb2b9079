package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"customer-service/internal/config"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "customer-service:ratelimit:"

// RedisRateLimiter counts requests per client IP in a fixed window shared by
// every replica pointing at the same Redis. Redis failures let the request
// through.
type RedisRateLimiter struct {
	client redis.Cmdable
	limit  int64
	window time.Duration
	logger *slog.Logger
}

func NewRedisRateLimiter(client redis.Cmdable, cfg config.RateLimitConfig, logger *slog.Logger) *RedisRateLimiter {
	limit := int64(math.Ceil(cfg.RPS))
	if limit < 1 {
		limit = 1
	}
	logger = logger.With("component", "RedisRateLimiter")
	logger.Info("Rate limiter configured", "limit", limit, "window", time.Second)

	return &RedisRateLimiter{
		client: client,
		limit:  limit,
		window: time.Second,
		logger: logger,
	}
}

func (rl *RedisRateLimiter) allow(ctx context.Context, ip string) (bool, int64, error) {
	key := redisKeyPrefix + ip

	pipe := rl.client.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	ttlCmd := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit pipeline: %w", err)
	}

	count := incrCmd.Val()
	// A key without expiry is a fresh window.
	if ttl := ttlCmd.Val(); ttl < 0 {
		if err := rl.client.Expire(ctx, key, rl.window).Err(); err != nil {
			rl.logger.ErrorContext(ctx, "Failed to set window expiry", "error", err, "key", key)
		}
	}
	return count <= rl.limit, count, nil
}

func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ip := extractIP(r)

		allowed, count, err := rl.allow(ctx, ip)
		if err != nil {
			rl.logger.ErrorContext(ctx, "Redis unavailable, not rate limiting", "error", err, "ip", ip)
		}
		if !allowed {
			rl.logger.WarnContext(ctx, "Rate limit exceeded", "ip", ip, "count", count, "limit", rl.limit)
			w.Header().Set("Retry-After", fmt.Sprintf("%.0f", rl.window.Seconds()))
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}
