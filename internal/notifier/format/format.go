package format

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/smallbiznis/failrelay/internal/notifier/domain"
)

const dashboardBase = "https://dashboard.stripe.com/payments/"

const emailTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px;">
  <h2 style="color: #cc0000;">Payment Failed</h2>
  <p>A payment has failed and may need attention.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Payment ID</strong></td><td>{{.PaymentID}}</td></tr>
    <tr><td><strong>Customer</strong></td><td>{{.CustomerName}} ({{.CustomerEmail}})</td></tr>
    <tr><td><strong>Amount</strong></td><td>{{.Amount}} {{.Currency}}</td></tr>
    <tr><td><strong>Reason</strong></td><td>{{.Reason}}</td></tr>
    <tr><td><strong>Failed At</strong></td><td>{{.FailedAt}}</td></tr>
  </table>
  <p><a href="{{.DashboardURL}}">View in Stripe Dashboard</a></p>
</div>`

var emailTmpl = template.Must(template.New("failure_alert").Parse(emailTemplate))

type emailData struct {
	PaymentID     string
	CustomerName  string
	CustomerEmail string
	Amount        string
	Currency      string
	Reason        string
	FailedAt      string
	DashboardURL  string
}

// RenderEmail produces the alert subject and HTML body for a record.
func RenderEmail(record domain.FailureRecord) (string, string, error) {
	data := emailData{
		PaymentID:     record.PaymentID,
		CustomerName:  record.CustomerName,
		CustomerEmail: record.CustomerEmail,
		Amount:        MajorUnits(record.AmountMinor),
		Currency:      strings.ToUpper(record.Currency),
		Reason:        record.FailureReason,
		FailedAt:      record.FailedAt.Format(time.RFC3339),
		DashboardURL:  dashboardBase + record.PaymentID,
	}

	var body bytes.Buffer
	if err := emailTmpl.Execute(&body, data); err != nil {
		return "", "", err
	}

	subject := fmt.Sprintf("Payment failed: %s %s from %s",
		data.Amount, data.Currency, record.CustomerName)
	return subject, body.String(), nil
}

// TableFields maps a record to the external table's named columns.
func TableFields(record domain.FailureRecord) map[string]any {
	return map[string]any{
		"Payment ID":     record.PaymentID,
		"Customer Email": record.CustomerEmail,
		"Customer Name":  record.CustomerName,
		"Amount":         float64(record.AmountMinor) / 100,
		"Currency":       strings.ToUpper(record.Currency),
		"Failure Reason": record.FailureReason,
		"Failed At":      record.FailedAt.Format(time.RFC3339),
		// Status never transitions past Failed anywhere in this system.
		"Status": "Failed",
	}
}

// MajorUnits converts minor units to a two-decimal major-unit string.
// The division by 100 assumes a two-decimal currency.
func MajorUnits(minor int64) string {
	return fmt.Sprintf("%.2f", float64(minor)/100)
}
