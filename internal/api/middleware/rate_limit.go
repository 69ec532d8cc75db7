package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/michalwarchol/slash-api/pkg/redis"
	"github.com/michalwarchol/slash-api/pkg/response"
)

// RateLimit throttles requests per client IP and route using a Redis
// counter. A nil client, or a Redis error, fails open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.Next()
			return
		}

		key := fmt.Sprintf("rate_limit:%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := rdb.CheckRateLimit(c.Request.Context(), key, limit, window)
		if err != nil {
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, 10004, "too many requests, try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
