package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleHealth exercises all three external dependencies. The first
// failure short-circuits with a 500 and the triggering error message.
func (s *Server) HandleHealth(c *gin.Context) {
	ctx := c.Request.Context()

	if err := s.payments.ListPaymentIntents(ctx, 1); err != nil {
		s.metrics.RecordHealthFailure("stripe")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	if err := s.table.ListRecords(ctx, 1); err != nil {
		s.metrics.RecordHealthFailure("airtable")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	if err := s.mailer.CheckAuth(ctx); err != nil {
		s.metrics.RecordHealthFailure("gmail")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"stripe":   "connected",
		"airtable": "connected",
		"gmail":    "authenticated",
	})
}
