package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
)

// HandleTestTrigger synthesizes a fixed failure record and runs it
// through both sinks directly, bypassing ingestion, signature checks and
// enrichment entirely.
func (s *Server) HandleTestTrigger(c *gin.Context) {
	record := notifierdomain.FailureRecord{
		PaymentID:     fmt.Sprintf("pi_test_%s", s.genID.Generate()),
		CustomerEmail: "test@example.com",
		CustomerName:  "Test Customer",
		AmountMinor:   2999,
		Currency:      "usd",
		FailureReason: "Test failure - this is a manual test trigger",
		FailedAt:      time.Now().UTC(),
	}

	outcome := s.notifySvc.Notify(c.Request.Context(), record)

	var recordID any
	if outcome.RecordID != "" {
		recordID = outcome.RecordID
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"emailSent":      outcome.EmailSent,
		"airtableRecord": recordID,
	})
}
