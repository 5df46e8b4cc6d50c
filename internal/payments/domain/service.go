package domain

import (
	"context"
	"errors"
)

var (
	ErrInvalidSignature = errors.New("invalid_signature")
	ErrInvalidPayload   = errors.New("invalid_payload")
	ErrInvalidEvent     = errors.New("invalid_event")
)

// Service ingests raw webhook deliveries. A non-nil error means the
// delivery must not be acknowledged; sink failures never surface here.
type Service interface {
	IngestWebhook(ctx context.Context, payload []byte, signature string) error
}

// Verifier checks webhook authenticity and parses the envelope.
type Verifier interface {
	Verify(ctx context.Context, payload []byte, signature string) error
	Parse(ctx context.Context, payload []byte) (*Event, error)
}

// Client is the processor API surface the relay needs.
type Client interface {
	GetCustomer(ctx context.Context, id string) (Customer, error)
	// ListPaymentIntents performs a bounded list call, used as a
	// connectivity probe.
	ListPaymentIntents(ctx context.Context, limit int) error
}
