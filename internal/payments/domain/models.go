package domain

// Stripe event types the relay recognizes. Everything else is logged as
// unhandled and acknowledged without fan-out.
const (
	EventTypePaymentIntentFailed = "payment_intent.payment_failed"
	EventTypeChargeFailed        = "charge.failed"
	EventTypeInvoiceFailed       = "invoice.payment_failed"
)

// Event is the parsed webhook envelope. Fields beyond ID and Type are
// populated only for payment_intent.payment_failed events.
type Event struct {
	ID            string
	Type          string
	PaymentID     string
	CustomerRef   string
	Amount        int64
	Currency      string
	FailureReason string
}

// Customer is the processor's customer object, read-only.
type Customer struct {
	Email string
	Name  string
}
