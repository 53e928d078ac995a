package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alisharafiiii/nabulines-backup/internal/util"
	"github.com/alisharafiiii/nabulines-backup/models"
)

const rateLimitKeyPrefix = "ratelimit:"

// RateLimit bounds requests per client IP within a rolling window, with
// counters kept in the key-value store so limits hold across instances.
func RateLimit(store models.KeyValueStore, logger models.Logger, config models.RateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !config.Enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := util.ExtractClientIP(r.Header.Get("X-Forwarded-For"), r.Header.Get("X-Real-IP"), r.RemoteAddr)

			allowed, count, resetTime, err := checkAndIncrement(r, store, rateLimitKeyPrefix+ip, config.Window, config.MaxRequests)
			if err != nil {
				// Storage trouble must not take the API down
				logger.Warn("rate limit check failed", "error", err, "ip", util.MaskIP(ip))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.MaxRequests))
			remaining := config.MaxRequests - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

			if !allowed {
				retryAfter := int(time.Until(resetTime).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				logger.Warn("rate limit exceeded", "ip", util.MaskIP(ip), "count", count)
				util.ErrorResponse(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkAndIncrement bumps the window counter for a key and reports
// whether the request fits under the limit.
func checkAndIncrement(r *http.Request, store models.KeyValueStore, key string, window time.Duration, maxRequests int) (bool, int, time.Time, error) {
	ctx := r.Context()
	now := time.Now()

	_, err := store.Get(ctx, key)
	if err != nil && !errors.Is(err, models.ErrKeyNotFound) {
		return false, 0, time.Time{}, fmt.Errorf("failed to get rate limit count: %w", err)
	}

	if errors.Is(err, models.ErrKeyNotFound) {
		// New entry, increment with TTL set to window
		count, err := store.Incr(ctx, key, &window)
		if err != nil {
			return false, 0, time.Time{}, fmt.Errorf("failed to increment rate limit: %w", err)
		}
		return count <= maxRequests, count, now.Add(window), nil
	}

	count, err := store.Incr(ctx, key, nil)
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	resetTime := now.Add(window)
	if ttl, err := store.TTL(ctx, key); err == nil && ttl != nil && *ttl > 0 {
		resetTime = now.Add(*ttl)
	}

	return count <= maxRequests, count, resetTime, nil
}
