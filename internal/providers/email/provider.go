package email

import "context"

type Provider interface {
	Send(ctx context.Context, to []string, subject string, htmlBody string) error
	// CheckAuth verifies the provider's credentials without sending
	// anything, used by health checks.
	CheckAuth(ctx context.Context) error
}

type NoOpProvider struct{}

func (p *NoOpProvider) Send(ctx context.Context, to []string, subject string, htmlBody string) error {
	return nil
}

func (p *NoOpProvider) CheckAuth(ctx context.Context) error {
	return nil
}
