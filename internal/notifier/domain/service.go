package domain

import "context"

// Service fans a failure record out to both sinks. Notify never returns
// an error: each sink's failure is isolated, logged, and reported only
// through the Outcome.
type Service interface {
	Notify(ctx context.Context, record FailureRecord) Outcome
}
