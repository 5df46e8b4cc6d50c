package service

import (
	"context"
	"fmt"
	"time"

	activitydomain "github.com/smallbiznis/failrelay/internal/activitylog/domain"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
	"github.com/smallbiznis/failrelay/internal/payments/domain"
	"github.com/smallbiznis/failrelay/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Verifier domain.Verifier
	Client   domain.Client
	Notifier notifierdomain.Service
	Recorder activitydomain.Recorder
	Metrics  *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	verifier domain.Verifier
	client   domain.Client
	notifier notifierdomain.Service
	recorder activitydomain.Recorder
	metrics  *telemetry.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		log:      p.Log.Named("payments.ingest"),
		verifier: p.Verifier,
		client:   p.Client,
		notifier: p.Notifier,
		recorder: p.Recorder,
		metrics:  p.Metrics,
	}
}

// IngestWebhook verifies a raw webhook delivery, classifies the event
// and runs the fan-out pipeline for failed payment intents. Once the
// signature has verified, the delivery is always acknowledged: sink
// failures must never trigger the processor's retry machinery.
func (s *Service) IngestWebhook(ctx context.Context, payload []byte, signature string) error {
	if err := s.verifier.Verify(ctx, payload, signature); err != nil {
		s.recorder.Append(activitydomain.SeverityError, "Webhook signature verification failed")
		s.metrics.RecordWebhookRejected()
		return err
	}

	event, err := s.verifier.Parse(ctx, payload)
	if err != nil {
		s.recorder.Append(activitydomain.SeverityError, "Webhook payload could not be parsed")
		s.metrics.RecordWebhookRejected()
		return err
	}

	s.recorder.Append(activitydomain.SeverityInfo,
		fmt.Sprintf("Webhook received: %s", event.Type))

	outcome := "ignored"
	switch event.Type {
	case domain.EventTypePaymentIntentFailed:
		s.handlePaymentFailure(ctx, event)
		outcome = "processed"
	case domain.EventTypeChargeFailed:
		s.recorder.Append(activitydomain.SeverityInfo,
			fmt.Sprintf("Charge failed event %s received, no action taken", event.ID))
	case domain.EventTypeInvoiceFailed:
		s.recorder.Append(activitydomain.SeverityInfo,
			fmt.Sprintf("Invoice payment failed event %s received, no action taken", event.ID))
	default:
		s.recorder.Append(activitydomain.SeverityWarn,
			fmt.Sprintf("Unhandled event type: %s", event.Type))
		outcome = "unhandled"
	}

	s.metrics.RecordWebhookEvent(event.Type, outcome)
	return nil
}

func (s *Service) handlePaymentFailure(ctx context.Context, event *domain.Event) {
	customer := s.lookupCustomer(ctx, event.CustomerRef)

	reason := event.FailureReason
	if reason == "" {
		reason = notifierdomain.UnknownReason
	}

	record := notifierdomain.FailureRecord{
		PaymentID:     event.PaymentID,
		CustomerEmail: customer.Email,
		CustomerName:  customer.Name,
		AmountMinor:   event.Amount,
		Currency:      event.Currency,
		FailureReason: reason,
		FailedAt:      time.Now().UTC(),
	}

	outcome := s.notifier.Notify(ctx, record)

	s.recorder.Append(activitydomain.SeverityInfo,
		fmt.Sprintf("Processed failed payment %s: email=%t record=%q",
			record.PaymentID, outcome.EmailSent, outcome.RecordID))
}

// lookupCustomer resolves the customer reference to email and display
// name. An absent reference synthesizes the sentinel values without a
// network call; a lookup failure falls back to the same values rather
// than dropping the notification.
func (s *Service) lookupCustomer(ctx context.Context, ref string) domain.Customer {
	fallback := domain.Customer{
		Email: notifierdomain.UnknownEmail,
		Name:  notifierdomain.UnknownCustomer,
	}
	if ref == "" {
		s.metrics.RecordCustomerLookup("absent")
		return fallback
	}

	customer, err := s.client.GetCustomer(ctx, ref)
	if err != nil {
		s.log.Warn("customer lookup failed, using fallback",
			zap.String("customer_ref", ref),
			zap.Error(err),
		)
		s.metrics.RecordCustomerLookup("error")
		return fallback
	}
	s.metrics.RecordCustomerLookup("success")

	if customer.Email == "" {
		customer.Email = notifierdomain.UnknownEmail
	}
	if customer.Name == "" {
		if customer.Email != notifierdomain.UnknownEmail {
			customer.Name = customer.Email
		} else {
			customer.Name = notifierdomain.UnknownCustomer
		}
	}
	return customer
}
