package domain

import "time"

// Sentinel values substituted when the processor has no data.
const (
	UnknownEmail    = "Unknown"
	UnknownCustomer = "Unknown Customer"
	UnknownReason   = "Unknown error"
)

// FailureRecord is the normalized representation of one failed payment.
// It is fully populated before either sink is invoked; partial records
// are never dispatched.
type FailureRecord struct {
	PaymentID     string
	CustomerEmail string
	CustomerName  string
	// AmountMinor is in the smallest currency unit.
	AmountMinor int64
	// Currency is kept as provided by the processor; upper-cased at
	// presentation time only.
	Currency      string
	FailureReason string
	// FailedAt is stamped at processing time, not the processor's event
	// time. Changing this would silently alter the record-store
	// semantics.
	FailedAt time.Time
}

// Outcome reports both sink results. Sink errors are swallowed and only
// ever surface through these values.
type Outcome struct {
	EmailSent bool   `json:"emailSent"`
	RecordID  string `json:"airtableRecord"`
}
