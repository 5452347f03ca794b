// Package middleware holds the gin middleware shared by every route:
// panic recovery and request logging, both trace-aware.
package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oes-interview/engine/internal/http/dto"
)

// Recovery converts a panic into a 500 response instead of killing the
// process, logging the recovered value with the request's trace context.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.ErrorContext(c.Request.Context(), "panic recovered", "error", r, "path", c.Request.URL.Path)
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
			}
		}()
		c.Next()
	}
}

// Logger records one structured log line per request, with latency and
// status, after the OTel span is already attached to the context by
// otelgin (so trace_id/span_id ride along via common/logger's handler).
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		slog.InfoContext(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
		)
	}
}
