package api

import (
	"net/http"

	"newsfeed/monitor"

	"github.com/gin-gonic/gin"
)

// Monitor is the part of the monitor loop the API exposes
type Monitor interface {
	Status() monitor.Status
	Trigger()
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(feedsDir string, m Monitor) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	RegisterFeedRoutes(r, feedsDir)
	RegisterMonitorRoutes(r, m)
	RegisterHealthRoutes(r)
	return r
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
}
