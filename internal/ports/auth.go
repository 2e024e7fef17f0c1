package ports

import (
	"time"

	"github.com/centralhub/hub-core/internal/domain/model"
)

// SessionClaims is the claim set embedded in a primary session token.
type SessionClaims struct {
	UserID    string
	Email     string
	Role      model.RoleName
	ExpiresAt time.Time
}

// SSOClaims is the claim set embedded in a federation token. The embedded
// fields are a point-in-time snapshot; redemption re-reads the user.
type SSOClaims struct {
	UserID    string
	ModuleID  string
	Email     string
	FullName  string
	Role      model.RoleName
	ExpiresAt time.Time
}

// TokenSigner signs and verifies both bearer token formats with a
// server-held secret. Parse methods fail closed: any malformed, tampered, or
// expired token is an error.
type TokenSigner interface {
	SignSession(claims SessionClaims) (string, error)
	ParseSession(token string) (*SessionClaims, error)
	SignSSO(claims SSOClaims) (string, error)
	ParseSSO(token string) (*SSOClaims, error)
}

// PasswordHasher is the opaque hash/verify capability used by the session
// manager. Verify never reports why a mismatch occurred.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// Clock abstracts time for expiry logic so tests can fast-forward.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time { return time.Now() }
