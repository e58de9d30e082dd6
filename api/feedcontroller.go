package api

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"newsfeed/config"
	"newsfeed/publisher"

	"github.com/gin-gonic/gin"
)

type feedController struct {
	dir string
}

// RegisterFeedRoutes serves generated feed documents from dir.
func RegisterFeedRoutes(r *gin.Engine, dir string) {
	fc := &feedController{dir: dir}
	r.GET("/feeds/:name", fc.handleFeed)
}

// handleFeed returns feed_<name>.xml. A trailing .xml on the name is accepted.
func (fc *feedController) handleFeed(c *gin.Context) {
	name := strings.TrimSuffix(c.Param("name"), ".xml")
	if !config.ValidFeedName(name) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not yet generated"})
		return
	}

	data, err := os.ReadFile(publisher.FeedPath(fc.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		c.JSON(http.StatusNotFound, gin.H{"error": "feed not yet generated"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read feed"})
		return
	}
	c.Data(http.StatusOK, publisher.ContentType, data)
}
