package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// DefaultSessionTTL is the primary session lifetime.
const DefaultSessionTTL = 24 * time.Hour

// SessionAuthDeps groups the cryptographic and timing collaborators of the
// session manager.
type SessionAuthDeps struct {
	Signer ports.TokenSigner     // Required: bearer token signer
	Hasher ports.PasswordHasher  // Required: opaque hash/verify capability
	Clock  ports.Clock           // Optional: defaults to system time
	TTL    time.Duration         // Optional: defaults to DefaultSessionTTL
	Logger *slog.Logger          // Optional: structured logger
}

// SessionServiceOptions groups dependencies for SessionService.
type SessionServiceOptions struct {
	Users    ports.UserRepository
	Sessions ports.SessionRepository
	Auth     SessionAuthDeps
}

// SessionService issues, validates, and revokes primary sessions.
//
// Tokens are self-contained signed claims, but validation always pairs the
// signature check with a session-row lookup: revocation works by deleting
// the row even though the token would still verify cryptographically until
// its natural expiry.
type SessionService struct {
	users    ports.UserRepository
	sessions ports.SessionRepository
	signer   ports.TokenSigner
	hasher   ports.PasswordHasher
	clock    ports.Clock
	ttl      time.Duration
	logger   *slog.Logger
}

// NewSessionService constructs a new SessionService.
func NewSessionService(opts SessionServiceOptions) *SessionService {
	if opts.Users == nil {
		panic("UserRepository is required")
	}
	if opts.Sessions == nil {
		panic("SessionRepository is required")
	}
	if opts.Auth.Signer == nil {
		panic("TokenSigner is required")
	}
	if opts.Auth.Hasher == nil {
		panic("PasswordHasher is required")
	}
	clock := opts.Auth.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	ttl := opts.Auth.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		users:    opts.Users,
		sessions: opts.Sessions,
		signer:   opts.Auth.Signer,
		hasher:   opts.Auth.Hasher,
		clock:    clock,
		ttl:      ttl,
		logger:   opts.Auth.Logger,
	}
}

// LoginResult contains the outcome of a successful login.
type LoginResult struct {
	User      model.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Login authenticates a user by email and password and issues a session.
//
// Every failure path returns the same InvalidCredentials error: the response
// never distinguishes an unknown email, a deactivated account, and a wrong
// password. The audit log records the precise cause for internal diagnostics.
func (s *SessionService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			s.audit(ctx, "login rejected", "reason", "unknown_email")
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	if !user.IsActive {
		s.audit(ctx, "login rejected", "reason", "inactive_account", "user_id", user.ID)
		return nil, apperrors.InvalidCredentials()
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		s.audit(ctx, "login rejected", "reason", "bad_password", "user_id", user.ID)
		return nil, apperrors.InvalidCredentials()
	}

	now := s.clock.Now().UTC()
	expiresAt := now.Add(s.ttl)
	token, err := s.signer.SignSession(ports.SessionClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	lastLogin := now
	updated, err := s.users.Update(ctx, user.ID, model.UserUpdate{LastLogin: &lastLogin})
	if err != nil {
		return nil, apperrors.StorageUnavailable(err)
	}

	sess := model.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, apperrors.StorageUnavailable(err)
	}

	s.audit(ctx, "login succeeded", "user_id", user.ID, "session_id", sess.ID)
	return &LoginResult{
		User:      updated.Sanitized(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// AuthenticatedSession is a validated primary session with its owning user.
type AuthenticatedSession struct {
	User    model.User
	Session model.Session
	Claims  ports.SessionClaims
}

// Validate checks a bearer token. The signature check alone is not
// sufficient: a signature-valid token whose session row was deleted (logout,
// administrative revocation) fails validation. Storage failures fail closed.
func (s *SessionService) Validate(ctx context.Context, token string) (*AuthenticatedSession, error) {
	claims, err := s.signer.ParseSession(token)
	if err != nil {
		return nil, apperrors.SessionInvalid("session token is invalid or expired")
	}

	sess, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.SessionInvalid("session has been revoked")
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	now := s.clock.Now()
	if sess.Expired(now) {
		// Lazy cleanup; the sweeper handles anything this misses.
		_ = s.sessions.DeleteByToken(ctx, token)
		return nil, apperrors.SessionInvalid("session has expired")
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.SessionInvalid("session owner no longer exists")
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	if !user.IsActive {
		return nil, apperrors.SessionInvalid("session owner is deactivated")
	}

	return &AuthenticatedSession{User: *user, Session: *sess, Claims: *claims}, nil
}

// Logout revokes a session by deleting its row. Idempotent: logging out an
// already-revoked or unknown token is not an error.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.DeleteByToken(ctx, token); err != nil {
		return apperrors.StorageUnavailable(err)
	}
	return nil
}

// SweepExpired deletes every session past its absolute expiry and returns
// the number removed.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.sessions.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("sweep sessions: %w", err)
	}
	if removed > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "expired sessions swept", "count", removed)
	}
	return removed, nil
}

func (s *SessionService) audit(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
