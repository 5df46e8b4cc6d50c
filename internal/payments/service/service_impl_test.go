package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/failrelay/internal/activitylog/domain"
	activityservice "github.com/smallbiznis/failrelay/internal/activitylog/service"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
	"github.com/smallbiznis/failrelay/internal/payments/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	verifyErr error
	parseErr  error
	event     *domain.Event
}

func (f *fakeVerifier) Verify(ctx context.Context, payload []byte, signature string) error {
	return f.verifyErr
}

func (f *fakeVerifier) Parse(ctx context.Context, payload []byte) (*domain.Event, error) {
	if f.parseErr != nil {
		return nil, f.parseErr
	}
	return f.event, nil
}

type fakeClient struct {
	customer domain.Customer
	err      error
	calls    int
}

func (f *fakeClient) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	f.calls++
	return f.customer, f.err
}

func (f *fakeClient) ListPaymentIntents(ctx context.Context, limit int) error { return nil }

type fakeNotifier struct {
	records []notifierdomain.FailureRecord
	outcome notifierdomain.Outcome
}

func (f *fakeNotifier) Notify(ctx context.Context, record notifierdomain.FailureRecord) notifierdomain.Outcome {
	f.records = append(f.records, record)
	return f.outcome
}

func newTestService(t *testing.T, verifier *fakeVerifier, client *fakeClient, notifier *fakeNotifier) (domain.Service, activitydomain.Recorder) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	recorder := activityservice.New(activityservice.Params{Log: zap.NewNop(), GenID: node})

	svc := New(Params{
		Log:      zap.NewNop(),
		Verifier: verifier,
		Client:   client,
		Notifier: notifier,
		Recorder: recorder,
	})
	return svc, recorder
}

func failedIntentEvent() *domain.Event {
	return &domain.Event{
		ID:            "evt_1",
		Type:          domain.EventTypePaymentIntentFailed,
		PaymentID:     "pi_1",
		CustomerRef:   "cus_42",
		Amount:        2999,
		Currency:      "usd",
		FailureReason: "Your card was declined.",
	}
}

func TestIngestInvalidSignature(t *testing.T) {
	verifier := &fakeVerifier{verifyErr: domain.ErrInvalidSignature}
	client := &fakeClient{}
	notifier := &fakeNotifier{}
	svc, recorder := newTestService(t, verifier, client, notifier)

	err := svc.IngestWebhook(context.Background(), []byte("{}"), "t=1,v1=bad")
	require.ErrorIs(t, err, domain.ErrInvalidSignature)

	require.Empty(t, notifier.records, "no record may be dispatched on signature failure")
	require.Zero(t, client.calls, "no lookup may happen on signature failure")

	last, ok := recorder.Last()
	require.True(t, ok)
	require.Equal(t, activitydomain.SeverityError, last.Severity)
}

func TestIngestFailedIntentWithResolvedCustomer(t *testing.T) {
	verifier := &fakeVerifier{event: failedIntentEvent()}
	client := &fakeClient{customer: domain.Customer{Email: "jane@example.com", Name: "Jane Doe"}}
	notifier := &fakeNotifier{outcome: notifierdomain.Outcome{EmailSent: true, RecordID: "rec1"}}
	svc, recorder := newTestService(t, verifier, client, notifier)

	require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))

	require.Len(t, notifier.records, 1)
	record := notifier.records[0]
	require.Equal(t, "pi_1", record.PaymentID)
	require.Equal(t, "jane@example.com", record.CustomerEmail)
	require.Equal(t, "Jane Doe", record.CustomerName)
	require.Equal(t, int64(2999), record.AmountMinor)
	require.Equal(t, "usd", record.Currency)
	require.Equal(t, "Your card was declined.", record.FailureReason)
	require.False(t, record.FailedAt.IsZero())

	received := 0
	for _, entry := range recorder.Recent(0) {
		if strings.Contains(entry.Message, "Webhook received: "+domain.EventTypePaymentIntentFailed) {
			received++
		}
	}
	require.Equal(t, 1, received, "event must be logged exactly once with its type")
}

func TestIngestFailedIntentWithoutCustomerRef(t *testing.T) {
	event := failedIntentEvent()
	event.CustomerRef = ""
	verifier := &fakeVerifier{event: event}
	client := &fakeClient{}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, verifier, client, notifier)

	require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))

	require.Zero(t, client.calls, "absent reference must not trigger a lookup")
	require.Len(t, notifier.records, 1)
	require.Equal(t, notifierdomain.UnknownEmail, notifier.records[0].CustomerEmail)
	require.Equal(t, notifierdomain.UnknownCustomer, notifier.records[0].CustomerName)
}

func TestIngestLookupFailureFallsBack(t *testing.T) {
	verifier := &fakeVerifier{event: failedIntentEvent()}
	client := &fakeClient{err: errors.New("rate limited")}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, verifier, client, notifier)

	require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))

	require.Equal(t, 1, client.calls)
	require.Len(t, notifier.records, 1, "lookup failure must not drop the notification")
	require.Equal(t, notifierdomain.UnknownEmail, notifier.records[0].CustomerEmail)
	require.Equal(t, notifierdomain.UnknownCustomer, notifier.records[0].CustomerName)
}

func TestIngestCustomerNameFallsBackToEmail(t *testing.T) {
	verifier := &fakeVerifier{event: failedIntentEvent()}
	client := &fakeClient{customer: domain.Customer{Email: "jane@example.com"}}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, verifier, client, notifier)

	require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))

	require.Len(t, notifier.records, 1)
	require.Equal(t, "jane@example.com", notifier.records[0].CustomerName)
}

func TestIngestMissingReasonDefaultsToSentinel(t *testing.T) {
	event := failedIntentEvent()
	event.FailureReason = ""
	verifier := &fakeVerifier{event: event}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, verifier, &fakeClient{}, notifier)

	require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))

	require.Len(t, notifier.records, 1)
	require.Equal(t, notifierdomain.UnknownReason, notifier.records[0].FailureReason)
}

func TestIngestLogOnlyTypes(t *testing.T) {
	tests := []struct {
		name string
		typ  string
	}{
		{name: "charge failed", typ: domain.EventTypeChargeFailed},
		{name: "invoice failed", typ: domain.EventTypeInvoiceFailed},
		{name: "unhandled", typ: "customer.created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &fakeVerifier{event: &domain.Event{ID: "evt_x", Type: tt.typ}}
			notifier := &fakeNotifier{}
			svc, recorder := newTestService(t, verifier, &fakeClient{}, notifier)

			require.NoError(t, svc.IngestWebhook(context.Background(), []byte("{}"), "sig"))
			require.Empty(t, notifier.records, "log-only types must not fan out")
			require.NotZero(t, recorder.Total())
		})
	}
}

func TestIngestParseFailure(t *testing.T) {
	verifier := &fakeVerifier{parseErr: domain.ErrInvalidPayload}
	notifier := &fakeNotifier{}
	svc, _ := newTestService(t, verifier, &fakeClient{}, notifier)

	err := svc.IngestWebhook(context.Background(), []byte("not json"), "sig")
	require.ErrorIs(t, err, domain.ErrInvalidPayload)
	require.Empty(t, notifier.records)
}
