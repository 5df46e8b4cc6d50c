package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentsdomain "github.com/smallbiznis/failrelay/internal/payments/domain"
)

// HandleWebhook ingests a raw processor delivery. The body is read as
// raw bytes because the signature covers the exact payload. Once
// verification passes, the response is 200 regardless of what the
// downstream sinks did.
func (s *Server) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, paymentsdomain.ErrInvalidPayload)
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := s.ingestSvc.IngestWebhook(c.Request.Context(), payload, signature); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
