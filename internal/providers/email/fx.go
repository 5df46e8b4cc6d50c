package email

import (
	"github.com/smallbiznis/failrelay/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.email",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) Provider {
	return NewGmail(Config{
		PrivateKey:  cfg.GooglePrivateKey,
		ClientEmail: cfg.GoogleClientEmail,
		ClientID:    cfg.GoogleClientID,
		ProjectID:   cfg.GoogleProjectID,
	})
}
