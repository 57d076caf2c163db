package middleware

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clinic-app-server/internal/config"
	"clinic-app-server/internal/utils"
)

const (
	defaultRateLimit  = 10
	defaultRateWindow = 15 * time.Minute
)

// RateLimitConfig holds configuration for rate limiting
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// RateLimiter creates a fixed-window rate limiting middleware keyed by
// (endpoint, client IP). When Redis is unreachable the request is allowed
// through so an outage cannot take down booking or login.
func RateLimiter(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Limit == 0 {
		cfg.Limit = defaultRateLimit
	}
	if cfg.Window == 0 {
		cfg.Window = defaultRateWindow
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:%s:%s", c.Request.URL.Path, c.ClientIP())

		allowed, err := checkRateLimit(key, cfg.Limit, cfg.Window)
		if err != nil {
			log.Printf("Rate limit check failed for %s: %v", key, err)
			c.Next()
			return
		}

		if !allowed {
			utils.TooManyRequests(c, "Too many requests. Please try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}

// checkRateLimit increments the window counter and reports whether the
// request is still within limits.
func checkRateLimit(key string, limit int, window time.Duration) (bool, error) {
	rdb := config.GetRedisClient()
	if rdb == nil {
		// Redis not configured; allow the request.
		return true, nil
	}

	ctx := context.Background()

	pipe := rdb.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return incrCmd.Val() <= int64(limit), nil
}
