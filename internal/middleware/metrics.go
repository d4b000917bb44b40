package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics is the subset of the metrics recorder used by Metrics
type HTTPMetrics interface {
	ObserveHTTP(method, route string, status int, latency time.Duration)
}

// Metrics records request counts and latencies labelled by route template,
// so /moods/:id stays one series
func Metrics(m HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
