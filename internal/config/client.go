package config

import "time"

type Client struct {
	BaseURL      string        `env:"STOREFRONT_API_URL" envDefault:"http://localhost:8000"`
	Timeout      time.Duration `env:"STOREFRONT_API_TIMEOUT" envDefault:"10s"`
	MaxAttempts  int           `env:"STOREFRONT_API_MAX_ATTEMPTS" envDefault:"3"`
	RetryBackoff time.Duration `env:"STOREFRONT_API_RETRY_BACKOFF" envDefault:"200ms"`

	// BrandColors maps a brand name to an ANSI colour code, e.g. "PIPPOS:33,Café:31".
	BrandColors  map[string]string `env:"STOREFRONT_BRAND_COLORS" envSeparator:"," envKeyValSeparator:":"`
	DefaultColor string            `env:"STOREFRONT_DEFAULT_COLOR" envDefault:"36"`
}
