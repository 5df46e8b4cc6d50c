package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const recentLogLimit = 20

// HandleLogs returns the most recent activity-log entries, newest first.
func (s *Server) HandleLogs(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"logs":  s.recorder.Recent(recentLogLimit),
		"total": s.recorder.Total(),
	})
}
