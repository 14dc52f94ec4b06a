package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ideation/backend/internal/infrastructure/telemetry"
)

// Profiling tags CPU samples taken while serving a request with its route
// pattern and method. Unmatched paths are not labelled.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			c.Next()
			return
		}
		labels := telemetry.HTTPRequestLabels(route, c.Request.Method)
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}
