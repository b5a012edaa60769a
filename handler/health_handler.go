package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health GET /
func Health(c *gin.Context) {
	success(c, gin.H{
		"service":   "EduBridge API",
		"status":    "running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NotFound answers unmatched routes.
func NotFound(c *gin.Context) {
	fail(c, http.StatusNotFound, "Route not found")
}
