package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleStatus returns the service directory and the timestamp of the
// most recent activity-log entry.
func (s *Server) HandleStatus(c *gin.Context) {
	var lastActivity any
	if entry, ok := s.recorder.Last(); ok {
		lastActivity = entry.Timestamp
	}

	c.JSON(http.StatusOK, gin.H{
		"service": s.cfg.AppName,
		"version": s.cfg.AppVersion,
		"endpoints": gin.H{
			"POST /webhook": "Stripe webhook receiver",
			"GET /health":   "dependency health check",
			"GET /logs":     "recent activity log",
			"POST /test":    "manual test notification",
			"GET /metrics":  "Prometheus metrics",
		},
		"features": []string{
			"payment failure email alerts",
			"Airtable failure records",
			"webhook signature verification",
		},
		"lastActivity": lastActivity,
	})
}
