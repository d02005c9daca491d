package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

// Recovery converts handler panics into opaque 500 responses.
func Recovery(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("recovered from handler panic",
					"panic", r,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
				)
				utils.ErrorResponse(c, http.StatusInternalServerError, "internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}
