package airtable

import (
	"context"
	"time"

	"github.com/smallbiznis/failrelay/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.airtable",
	fx.Provide(NewFromConfig),
	fx.Provide(func(c *Client) Store { return c }),
	fx.Invoke(verifyTable),
)

func NewFromConfig(cfg config.Config) *Client {
	return NewClient(Config{
		APIKey:    cfg.AirtableAPIKey,
		BaseID:    cfg.AirtableBaseID,
		TableName: cfg.AirtableTableName,
	})
}

// verifyTable performs an advisory bounded read at startup. A failure is
// logged with the expected schema so an operator can create the table by
// hand; it never blocks startup and never creates the table itself.
func verifyTable(lc fx.Lifecycle, client *Client, cfg config.Config, log *zap.Logger) {
	log = log.Named("airtable")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				checkCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := client.ListRecords(checkCtx, 1); err != nil {
					log.Warn("table check failed; create the table manually",
						zap.String("table", cfg.AirtableTableName),
						zap.String("expected_schema", SchemaDescription()),
						zap.Error(err),
					)
					return
				}
				log.Info("table check passed", zap.String("table", cfg.AirtableTableName))
			}()
			return nil
		},
	})
}
