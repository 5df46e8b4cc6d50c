package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
//
// Values are read once at startup; missing credentials are not validated
// eagerly, downstream calls fail at call time instead.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        string

	StripeSecretKey     string
	StripeWebhookSecret string

	AirtableAPIKey    string
	AirtableBaseID    string
	AirtableTableName string

	GooglePrivateKey  string
	GoogleClientEmail string
	GoogleClientID    string
	GoogleProjectID   string

	AlertEmail string
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "failrelay"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		Port:        getenv("PORT", "8080"),

		StripeSecretKey:     strings.TrimSpace(getenv("STRIPE_SECRET_KEY", "")),
		StripeWebhookSecret: strings.TrimSpace(getenv("STRIPE_WEBHOOK_SECRET", "")),

		AirtableAPIKey:    strings.TrimSpace(getenv("AIRTABLE_API_KEY", "")),
		AirtableBaseID:    strings.TrimSpace(getenv("AIRTABLE_BASE_ID", "")),
		AirtableTableName: getenv("AIRTABLE_TABLE_NAME", "Payment Failures"),

		// The private key usually arrives with literal \n sequences when
		// set through an env file.
		GooglePrivateKey:  strings.ReplaceAll(getenv("GOOGLE_PRIVATE_KEY", ""), `\n`, "\n"),
		GoogleClientEmail: strings.TrimSpace(getenv("GOOGLE_CLIENT_EMAIL", "")),
		GoogleClientID:    strings.TrimSpace(getenv("GOOGLE_CLIENT_ID", "")),
		GoogleProjectID:   strings.TrimSpace(getenv("GOOGLE_PROJECT_ID", "")),

		AlertEmail: strings.TrimSpace(getenv("ALERT_EMAIL", "alerts@smallbiznis.dev")),
	}
}

func getenv(key, def string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return def
}
