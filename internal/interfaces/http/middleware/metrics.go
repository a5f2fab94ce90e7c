package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// HTTPMetrics records request count, latency and in-flight requests per
// route pattern. A nil metrics set disables the middleware.
func HTTPMetrics(metrics *telemetry.HTTPMetrics) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		done := metrics.Start(c.Request.Context(), c.Request.Method)
		c.Next()
		// route patterns keep label cardinality bounded
		done(c.FullPath(), c.Writer.Status())
	}
}
