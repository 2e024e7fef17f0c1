// Package token implements the two signed bearer token formats with HS256
// and a server-held secret. Tokens are self-contained but never sufficient on
// their own: callers pair signature checks with a storage lookup so that
// revocation and single-use semantics hold.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	"github.com/centralhub/hub-core/internal/ports"
)

const (
	issuer = "hub-core"

	// TypeSSO is the value of the "type" claim on federation tokens.
	// Primary session tokens carry no "type" claim; an SSO token presented
	// as a session token (or vice versa) fails parsing.
	TypeSSO = "sso"
)

// ErrInvalidToken indicates the token failed signature or claim validation.
var ErrInvalidToken = errors.New("invalid token")

// HMACSigner implements ports.TokenSigner with HS256.
type HMACSigner struct {
	secret []byte
	clock  ports.Clock
}

var _ ports.TokenSigner = (*HMACSigner)(nil)

// HMACSignerOptions groups construction parameters for HMACSigner.
type HMACSignerOptions struct {
	Secret []byte
	Clock  ports.Clock // Optional: defaults to system time
}

// NewHMACSigner constructs a signer. The secret is required.
func NewHMACSigner(opts HMACSignerOptions) (*HMACSigner, error) {
	if len(opts.Secret) == 0 {
		return nil, errors.New("signing secret is required")
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &HMACSigner{secret: opts.Secret, clock: clock}, nil
}

type sessionTokenClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type ssoTokenClaims struct {
	ModuleID  string `json:"module_id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// SignSession signs a primary session token carrying {userId, email, role}.
func (s *HMACSigner) SignSession(claims ports.SessionClaims) (string, error) {
	if claims.UserID == "" {
		return "", errors.New("userID is required")
	}
	now := s.clock.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionTokenClaims{
		Email:            claims.Email,
		Role:             string(claims.Role),
		RegisteredClaims: s.registered(claims.UserID, now, claims.ExpiresAt),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ParseSession verifies a primary session token and returns its claims.
func (s *HMACSigner) ParseSession(token string) (*ports.SessionClaims, error) {
	var claims sessionTokenClaims
	if err := s.parse(token, &claims); err != nil {
		return nil, err
	}
	return &ports.SessionClaims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		Role:      model.RoleName(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// SignSSO signs a federation token carrying the module scope and the
// type:"sso" marker.
func (s *HMACSigner) SignSSO(claims ports.SSOClaims) (string, error) {
	if claims.UserID == "" || claims.ModuleID == "" {
		return "", errors.New("userID and moduleID are required")
	}
	now := s.clock.Now().UTC()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, ssoTokenClaims{
		ModuleID:         claims.ModuleID,
		Email:            claims.Email,
		FullName:         claims.FullName,
		Role:             string(claims.Role),
		TokenType:        TypeSSO,
		RegisteredClaims: s.registered(claims.UserID, now, claims.ExpiresAt),
	})
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign sso token: %w", err)
	}
	return signed, nil
}

// ParseSSO verifies a federation token. Tokens whose "type" claim is not
// "sso" are rejected even when the signature is valid.
func (s *HMACSigner) ParseSSO(token string) (*ports.SSOClaims, error) {
	var claims ssoTokenClaims
	if err := s.parse(token, &claims); err != nil {
		return nil, err
	}
	if claims.TokenType != TypeSSO {
		return nil, ErrInvalidToken
	}
	if claims.ModuleID == "" {
		return nil, ErrInvalidToken
	}
	return &ports.SSOClaims{
		UserID:    claims.Subject,
		ModuleID:  claims.ModuleID,
		Email:     claims.Email,
		FullName:  claims.FullName,
		Role:      model.RoleName(claims.Role),
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (s *HMACSigner) registered(subject string, now, expiresAt time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt.UTC()),
		ID:        uuid.NewString(),
	}
}

func (s *HMACSigner) parse(token string, claims jwt.Claims) error {
	if token == "" {
		return ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.clock.Now))
	if err != nil || !parsed.Valid {
		return ErrInvalidToken
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return ErrInvalidToken
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return ErrInvalidToken
	}
	return nil
}
