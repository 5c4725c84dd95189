package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/service"
)

// Metrics captures per-request timing and status counts. A nil metrics
// service turns the middleware into a pass-through.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Prefer the route template so path cardinality stays bounded.
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
