// Package router wires the handler(s) onto a gin.Engine.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/oes-interview/engine/internal/http/handler"
)

// SetupRoutes registers the single /update endpoint the core requires
// (spec §6), plus an unauthenticated health check for the host's load
// balancer.
func SetupRoutes(r *gin.Engine, update *handler.UpdateHandler) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/update", update.Update)
}
