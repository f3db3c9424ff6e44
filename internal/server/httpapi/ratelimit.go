package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/muliswilliam/secureshare/internal/logging"
)

// redisCounter is the slice of the Redis client the limiter uses.
// *redis.Client satisfies it.
type redisCounter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// RateLimiter is a Redis-backed fixed-window limiter keyed by client IP.
// Counters live in Redis so the budget holds across server replicas. When
// Redis is unreachable the limiter fails open: availability of the share
// flow wins over strict accounting.
type RateLimiter struct {
	client redisCounter
	limit  int
	window time.Duration
	logger logging.Logger
}

func NewRateLimiter(client redisCounter, limit int, window time.Duration, logger logging.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}

		key := "ratelimit:" + ip
		count, err := l.client.Incr(r.Context(), key).Result()
		if err != nil {
			l.logger.Warn(r.Context(), "rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if count == 1 {
			// First hit in this window starts the clock.
			if err := l.client.Expire(r.Context(), key, l.window).Err(); err != nil {
				// A counter without a TTL would never reset, locking the IP
				// out once over budget. Drop it and fail open instead.
				l.logger.Warn(r.Context(), "rate limiter expire failed", "error", err)
				if err := l.client.Del(r.Context(), key).Err(); err != nil {
					l.logger.Warn(r.Context(), "rate limiter counter cleanup failed", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}
		}

		if count > int64(l.limit) {
			w.Header().Set("Retry-After", l.window.String())
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
