package payments

import (
	"github.com/smallbiznis/failrelay/internal/config"
	"github.com/smallbiznis/failrelay/internal/payments/domain"
	"github.com/smallbiznis/failrelay/internal/payments/service"
	"github.com/smallbiznis/failrelay/internal/payments/stripe"
	"go.uber.org/fx"
)

var Module = fx.Module("payments.service",
	fx.Provide(provideVerifier),
	fx.Provide(provideClient),
	fx.Provide(service.New),
)

func provideVerifier(cfg config.Config) domain.Verifier {
	return stripe.NewAdapter(cfg.StripeWebhookSecret)
}

func provideClient(cfg config.Config) domain.Client {
	return stripe.NewClient(cfg.StripeSecretKey)
}
