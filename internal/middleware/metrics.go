package middleware

import (
	"time"

	"github.com/SscSPs/erp_finance_core/internal/platform/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records the latency of every request under its route template.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
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
