package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// maxInboundRequestIDLen caps how much client-chosen header data gets echoed
// back and copied into every log line.
const maxInboundRequestIDLen = 128

// RequestID keeps a client-supplied X-Request-Id when it is reasonably
// sized, otherwise assigns a fresh one. The id is echoed on the response so
// callers can quote it when reporting a failure.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" || len(requestID) > maxInboundRequestIDLen {
			requestID = uuid.NewString()
			c.Request.Header.Set(requestIDHeader, requestID)
		}
		c.Set(requestIDHeader, requestID)
		c.Writer.Header().Set(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestIDFromContext returns the request id assigned by RequestID, or ""
// when the middleware did not run.
func RequestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDHeader); ok {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
