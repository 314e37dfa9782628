package config

import "time"

type AppConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"prod"`
	Port        int    `env:"PORT" envDefault:"3000"`
	// APIKey guards the console routes when set.
	APIKey string `env:"API_KEY"`
}

// APIConfig points at the protected admin backend.
type APIConfig struct {
	ServerURL string        `env:"SERVER_URL,required"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"10s"`
	RateLimit int           `env:"RATE_LIMIT" envDefault:"50"`
	PageSize  int           `env:"PAGE_SIZE" envDefault:"10"`
}
