package middleware

import (
	"fmt"
	"net/http"
	"time"

	"poll-service/internal/database"

	"github.com/gin-gonic/gin"
)

type RateLimitMiddleware struct {
	redisClient *database.RedisClient
}

func NewRateLimitMiddleware(redisClient *database.RedisClient) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		redisClient: redisClient,
	}
}

// RateLimitIP limits requests per client IP on public routes.
func (rm *RateLimitMiddleware) RateLimitIP(requests int, window time.Duration) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		if rm.redisClient == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		endpoint := c.Request.URL.Path
		key := fmt.Sprintf("rate_limit_ip:%s:%s", clientIP, endpoint)

		allowed, err := rm.redisClient.CheckRateLimit(c.Request.Context(), key, requests, window)
		if err != nil {
			// Fail open: a Redis outage should not block voting.
			c.Next()
			return
		}

		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": fmt.Sprintf("Too many requests. Limit: %d per %v", requests, window),
			})
			c.Abort()
			return
		}

		c.Next()
	})
}
