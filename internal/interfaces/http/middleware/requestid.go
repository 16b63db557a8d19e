// Package middleware holds the gin middleware chain: request id tagging,
// request logging, panic recovery and HTTP metrics.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the inbound/outbound request id header.
const RequestIDHeader = "X-Request-Id"

// requestIDKey is the gin context key the id is stored under.
const requestIDKey = "request_id"

// RequestID takes the caller's X-Request-Id or mints a short one, stores
// it in the context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if rid == "" {
			rid = uuid.NewString()[:8]
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the request id set by RequestID, or "".
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
