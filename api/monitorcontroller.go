package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterMonitorRoutes registers status and manual refresh endpoints.
func RegisterMonitorRoutes(r *gin.Engine, m Monitor) {
	g := r.Group("/api")
	g.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, m.Status())
	})

	// The next cycle starts as soon as the loop is idle; never concurrently with a running one.
	g.POST("/refresh", func(c *gin.Context) {
		m.Trigger()
		c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
	})
}
