package middlewares

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tahien663-cpu/chat-api/internal/infrastructure/metrics"
)

// MetricsMiddleware records request counters and latency per route. The
// route template is used as the endpoint label so path parameters do not
// explode label cardinality; unmatched paths fall back to the raw URL.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = c.Request.URL.Path
		}

		metrics.RecordRequest(method, endpoint, status, duration)
		metrics.RecordUserAgent(c.Request.UserAgent())
	}
}
