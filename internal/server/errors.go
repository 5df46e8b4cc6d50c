package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	paymentsdomain "github.com/smallbiznis/failrelay/internal/payments/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// ErrorHandlingMiddleware maps deferred handler errors to a JSON error
// envelope once the handler chain has finished.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: lastErr.Err.Error()})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) int {
	switch {
	case errors.Is(err, paymentsdomain.ErrInvalidSignature),
		errors.Is(err, paymentsdomain.ErrInvalidPayload),
		errors.Is(err, paymentsdomain.ErrInvalidEvent):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
