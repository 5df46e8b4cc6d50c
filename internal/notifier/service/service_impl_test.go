package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	activityservice "github.com/smallbiznis/failrelay/internal/activitylog/service"
	"github.com/smallbiznis/failrelay/internal/config"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMailer struct {
	err      error
	sent     int
	lastTo   []string
	lastBody string
}

func (f *fakeMailer) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	f.sent++
	f.lastTo = to
	f.lastBody = htmlBody
	return f.err
}

func (f *fakeMailer) CheckAuth(ctx context.Context) error { return nil }

type fakeStore struct {
	err        error
	calls      int
	lastFields map[string]any
}

func (f *fakeStore) CreateRecord(ctx context.Context, fields map[string]any) (string, error) {
	f.calls++
	f.lastFields = fields
	if f.err != nil {
		return "", f.err
	}
	return "recABC123", nil
}

func (f *fakeStore) ListRecords(ctx context.Context, maxRecords int) error { return nil }

func newTestNotifier(t *testing.T, mailer *fakeMailer, store *fakeStore) notifierdomain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	recorder := activityservice.New(activityservice.Params{Log: zap.NewNop(), GenID: node})

	return New(Params{
		Log:      zap.NewNop(),
		Cfg:      config.Config{AlertEmail: "ops@example.com"},
		Email:    mailer,
		Table:    store,
		Recorder: recorder,
	})
}

func sampleRecord() notifierdomain.FailureRecord {
	return notifierdomain.FailureRecord{
		PaymentID:     "pi_1",
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane Doe",
		AmountMinor:   2999,
		Currency:      "usd",
		FailureReason: "Your card was declined.",
		FailedAt:      time.Now().UTC(),
	}
}

func TestNotifyBothSinksSucceed(t *testing.T) {
	mailer := &fakeMailer{}
	store := &fakeStore{}
	svc := newTestNotifier(t, mailer, store)

	outcome := svc.Notify(context.Background(), sampleRecord())

	require.True(t, outcome.EmailSent)
	require.Equal(t, "recABC123", outcome.RecordID)
	require.Equal(t, []string{"ops@example.com"}, mailer.lastTo)
	require.Contains(t, mailer.lastBody, "29.99 USD")
	require.Equal(t, "USD", store.lastFields["Currency"])
	require.Equal(t, 29.99, store.lastFields["Amount"])
}

func TestNotifyEmailFailureDoesNotSkipRow(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("smtp timeout")}
	store := &fakeStore{}
	svc := newTestNotifier(t, mailer, store)

	outcome := svc.Notify(context.Background(), sampleRecord())

	require.False(t, outcome.EmailSent)
	require.Equal(t, 1, store.calls, "record write must still execute")
	require.Equal(t, "recABC123", outcome.RecordID)
}

func TestNotifyRowFailureReportsEmptyID(t *testing.T) {
	mailer := &fakeMailer{}
	store := &fakeStore{err: errors.New("table not found")}
	svc := newTestNotifier(t, mailer, store)

	outcome := svc.Notify(context.Background(), sampleRecord())

	require.True(t, outcome.EmailSent)
	require.Empty(t, outcome.RecordID)
}
