package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/AlvanCjh/paddock-panel/logger"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

// RateLimitConfig configures rate limiting
type RateLimitConfig struct {
	RequestsPerMinute int
	KeyFunc           func(c *gin.Context) string
	SkipPaths         []string // Paths to skip rate limiting
}

// DefaultRateLimitConfig returns default rate limit config
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerMinute: 60,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/assets/", "/favicon.ico"},
	}
}

// shouldSkip checks if path should be skipped
func (config RateLimitConfig) shouldSkip(path string) bool {
	for _, skipPath := range config.SkipPaths {
		if len(path) >= len(skipPath) && path[:len(skipPath)] == skipPath {
			return true
		}
	}
	return false
}

// RateLimitMiddleware creates rate limiting middleware backed by an
// in-memory TTL store. Counters expire a minute after their first request.
func RateLimitMiddleware(config RateLimitConfig) gin.HandlerFunc {
	counters := cache.New(time.Minute, 5*time.Minute)

	return func(c *gin.Context) {
		if config.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		key := config.KeyFunc(c)
		rateLimitKey := "ratelimit:" + key + ":" + c.Request.URL.Path

		count, err := counters.IncrementInt(rateLimitKey, 1)
		if err != nil {
			counters.Set(rateLimitKey, 1, time.Minute)
			count = 1
		}

		if count > config.RequestsPerMinute {
			logger.Warningf("Rate limit exceeded for %s on %s (count: %d)", key, c.Request.URL.Path, count)
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"msg":     "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerMinute))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.RequestsPerMinute-count))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))

		c.Next()
	}
}
