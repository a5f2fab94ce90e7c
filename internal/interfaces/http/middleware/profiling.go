package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/moviecatalog/backend/internal/infrastructure/telemetry"
)

// profilingSkipPrefixes never get profiling labels
var profilingSkipPrefixes = []string{"/health", "/swagger"}

// Profiling labels each API request with its route pattern, method and
// collection so Pyroscope can slice CPU time per endpoint. Static files and
// unmatched routes run unlabeled.
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || skipProfiling(route) {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelRoute:      route,
			telemetry.ProfilingLabelMethod:     c.Request.Method,
			telemetry.ProfilingLabelCollection: collectionOf(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func skipProfiling(route string) bool {
	for _, prefix := range profilingSkipPrefixes {
		if strings.HasPrefix(route, prefix) {
			return true
		}
	}
	return false
}

// collectionOf returns the resource segment after /api, e.g. "favorite"
// for /api/favorite/:id
func collectionOf(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	collection, _, _ := strings.Cut(rest, "/")
	return collection
}
