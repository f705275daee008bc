// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime configuration. Values come from environment
// variables; main loads a .env file first so local development needs no
// exported shell state.
type Config struct {
	// Port is the HTTP listen port.
	Port int `env:"PORT" envDefault:"8080"`

	// DBPath is the SQLite database file location.
	DBPath string `env:"DB_PATH" envDefault:"./data/tripsplit.db"`

	// JWTSecret signs session tokens. Required outside of tests.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenDuration is how long issued tokens stay valid.
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`

	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	// ExchangeAPIURL is the upstream currency-rate source.
	ExchangeAPIURL string `env:"EXCHANGE_API_URL" envDefault:"https://api.frankfurter.app"`

	// OCRServiceURL is the external receipt-extraction service. Empty
	// disables the OCR endpoint.
	OCRServiceURL string `env:"OCR_SERVICE_URL"`

	// OCRServiceToken authenticates against the extraction service.
	OCRServiceToken string `env:"OCR_SERVICE_TOKEN"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
