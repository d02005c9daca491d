package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meetscribe/meetscribe/internal/infrastructure/ratelimit"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

// RateLimit throttles requests per client IP using the sliding-window
// limiter. Limiter errors let the request through.
func RateLimit(limiter ratelimit.Limiter, limit int, window time.Duration, log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()

		allowed, err := limiter.Allow(c.Request.Context(), key, limit, window)
		if err != nil {
			log.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}
		if !allowed {
			utils.ErrorResponse(c, http.StatusTooManyRequests, "too many requests, slow down")
			c.Abort()
			return
		}

		c.Next()
	}
}
