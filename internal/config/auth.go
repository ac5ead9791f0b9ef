package config

import "time"

type Auth struct {
	JWTSecret   string        `env:"AUTH_JWT_SECRET,required"`
	TokenExpiry time.Duration `env:"AUTH_TOKEN_EXPIRY" envDefault:"24h"`
	Issuer      string        `env:"AUTH_ISSUER" envDefault:"storefront"`
	AdminEmails []string      `env:"AUTH_ADMIN_EMAILS" envSeparator:","`
}
