// Package config loads the storefront configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort        string        `env:"HTTP_PORT" envDefault:"8080"`
	APIBaseURL      string        `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`
	UpstreamTimeout time.Duration `env:"UPSTREAM_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// DeliveryCharge is added once per order regardless of item count.
	DeliveryCharge float64 `env:"DELIVERY_CHARGE" envDefault:"250"`
	CartFile       string  `env:"CART_FILE" envDefault:"cart.json"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// MailerProvider selects the admin notification channel:
	// "emailjs", "sendgrid" or empty to disable notifications.
	MailerProvider    string        `env:"MAILER_PROVIDER"`
	NotifyTimeout     time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"15s"`
	AdminEmail        string        `env:"ADMIN_EMAIL"`
	EmailJSEndpoint   string        `env:"EMAILJS_ENDPOINT"`
	EmailJSServiceID  string        `env:"EMAILJS_SERVICE_ID"`
	EmailJSTemplateID string        `env:"EMAILJS_TEMPLATE_ID"`
	EmailJSPublicKey  string        `env:"EMAILJS_PUBLIC_KEY"`
	SendGridAPIKey    string        `env:"SENDGRID_API_KEY"`
	SendGridFrom      string        `env:"SENDGRID_FROM"`
}

func Load() (*Config, error) {
	// Missing .env is fine; plain environment variables still apply.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
