package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
)

// Metrics records request count and duration per route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		m.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.HttpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
	}
}
