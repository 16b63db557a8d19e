package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/greenmobile/heatglass/internal/infrastructure/monitoring/prometheus"
)

// Metrics records per-request counters and latency. The route template
// (not the raw path) is used as the label to keep cardinality bounded.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.HTTPActiveRequests.WithLabelValues().Inc()
		start := time.Now()

		c.Next()

		m.HTTPActiveRequests.WithLabelValues().Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
