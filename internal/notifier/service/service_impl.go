package service

import (
	"context"
	"fmt"
	"time"

	"github.com/smallbiznis/failrelay/internal/activitylog/domain"
	"github.com/smallbiznis/failrelay/internal/config"
	notifierdomain "github.com/smallbiznis/failrelay/internal/notifier/domain"
	"github.com/smallbiznis/failrelay/internal/notifier/format"
	"github.com/smallbiznis/failrelay/internal/providers/airtable"
	"github.com/smallbiznis/failrelay/internal/providers/email"
	"github.com/smallbiznis/failrelay/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Cfg      config.Config
	Email    email.Provider
	Table    airtable.Store
	Recorder domain.Recorder
	Metrics  *telemetry.Metrics `optional:"true"`
}

type Service struct {
	log      *zap.Logger
	alertTo  string
	email    email.Provider
	table    airtable.Store
	recorder domain.Recorder
	metrics  *telemetry.Metrics
}

func New(p Params) notifierdomain.Service {
	return &Service{
		log:      p.Log.Named("notifier"),
		alertTo:  p.Cfg.AlertEmail,
		email:    p.Email,
		table:    p.Table,
		recorder: p.Recorder,
		metrics:  p.Metrics,
	}
}

// Notify dispatches the record to both sinks in order, email first. A
// sink failure is logged and reflected in the outcome, never returned;
// the second sink always runs regardless of the first one's result.
func (s *Service) Notify(ctx context.Context, record notifierdomain.FailureRecord) notifierdomain.Outcome {
	return notifierdomain.Outcome{
		EmailSent: s.sendEmail(ctx, record),
		RecordID:  s.writeRow(ctx, record),
	}
}

func (s *Service) sendEmail(ctx context.Context, record notifierdomain.FailureRecord) bool {
	start := time.Now()

	subject, body, err := format.RenderEmail(record)
	if err == nil {
		err = s.email.Send(ctx, []string{s.alertTo}, subject, body)
	}
	if err != nil {
		s.log.Error("alert email failed",
			zap.String("payment_id", record.PaymentID),
			zap.Error(err),
		)
		s.recorder.Append(domain.SeverityError,
			fmt.Sprintf("Failed to send alert email for %s: %v", record.PaymentID, err))
		s.metrics.RecordSinkDelivery("email", "error", time.Since(start))
		return false
	}

	s.recorder.Append(domain.SeverityInfo,
		fmt.Sprintf("Alert email sent for payment %s", record.PaymentID))
	s.metrics.RecordSinkDelivery("email", "success", time.Since(start))
	return true
}

func (s *Service) writeRow(ctx context.Context, record notifierdomain.FailureRecord) string {
	start := time.Now()

	recordID, err := s.table.CreateRecord(ctx, format.TableFields(record))
	if err != nil {
		s.log.Error("record store write failed",
			zap.String("payment_id", record.PaymentID),
			zap.Error(err),
		)
		s.recorder.Append(domain.SeverityError,
			fmt.Sprintf("Failed to write record for %s: %v", record.PaymentID, err))
		s.metrics.RecordSinkDelivery("airtable", "error", time.Since(start))
		return ""
	}

	s.recorder.Append(domain.SeverityInfo,
		fmt.Sprintf("Record %s created for payment %s", recordID, record.PaymentID))
	s.metrics.RecordSinkDelivery("airtable", "success", time.Since(start))
	return recordID
}
