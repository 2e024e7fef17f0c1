package config

import "time"

// AuthConfig groups authentication and token configuration.
type AuthConfig struct {
	// SigningSecret is the HMAC key used to sign session and federation
	// tokens. Required: the application refuses to start without one.
	SigningSecret string `env:"AUTH_SIGNING_SECRET,required"`

	// SessionTTL is the primary session lifetime.
	SessionTTL time.Duration `env:"AUTH_SESSION_TTL" envDefault:"24h"`

	// SSOTokenTTL is the federation token redemption window. Kept short:
	// the token travels in a redirect URL.
	SSOTokenTTL time.Duration `env:"AUTH_SSO_TOKEN_TTL" envDefault:"5m"`

	// BcryptCost is the bcrypt work factor for password hashing.
	BcryptCost int `env:"AUTH_BCRYPT_COST" envDefault:"10"`
}

// Sanitize applies guardrails to authentication configuration values.
func (a *AuthConfig) Sanitize() {
	if a.SessionTTL < time.Minute {
		a.SessionTTL = 24 * time.Hour
	}
	// The redemption window must stay well inside the session lifetime.
	if a.SSOTokenTTL < 10*time.Second || a.SSOTokenTTL > time.Hour {
		a.SSOTokenTTL = 5 * time.Minute
	}
	if a.BcryptCost < 4 || a.BcryptCost > 31 {
		a.BcryptCost = 10
	}
}
