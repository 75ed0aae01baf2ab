package middleware

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/feedback-notes/pkg/clientip"
)

// RateLimitKeyPrefix is the Redis key prefix for rate limiting
const RateLimitKeyPrefix = "ratelimit:"

// RedisRateLimit counts credential posts per IP in a fixed window shared by
// every server instance. Other requests pass straight through.
// When Redis is unavailable the request is allowed (fail open).
func RedisRateLimit(rdb *redis.Client, limit int, window time.Duration, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isCredentialPost(r) {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := RateLimitKeyPrefix + clientip.RealClientIP(r, trustProxy)

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				log.Printf("⚠️  WARNING: rate limit check failed: %v", err)
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				// first hit opens the window
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					log.Printf("⚠️  WARNING: rate limit expire failed: %v", err)
				}
			}

			ttl, err := rdb.TTL(ctx, key).Result()
			if err != nil || ttl < 0 {
				ttl = window
			}

			remaining := int64(limit) - count
			if remaining < 0 {
				remaining = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))

			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(ttl.Seconds())))
				http.Error(w, "Too many login attempts. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
