package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/logging"
)

// Recovery converts a handler panic into a 500 JSON response, logging the
// panic value with the request id.
func Recovery(log logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered interface{}) {
		log.Error("handler panic",
			logging.String("path", c.Request.URL.Path),
			logging.String("request_id", GetRequestID(c)),
			logging.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    "COMMON_001",
			"message": "internal server error",
		})
	})
}
