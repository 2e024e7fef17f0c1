package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// DefaultSSOTokenTTL bounds the window in which a minted federation token
// can be redeemed. It is deliberately much shorter than the primary session
// lifetime: the token travels in a redirect URL, so it can leak through
// browser history, referrer headers, and server logs.
const DefaultSSOTokenTTL = 5 * time.Minute

// SSOStores groups the storage collaborators of the federation broker.
type SSOStores struct {
	Tokens  ports.SSOTokenRepository // Required
	Modules ports.ModuleDirectory    // Required
	Users   ports.UserRepository     // Required
}

// SSOAuthDeps groups the authentication collaborators of the broker.
type SSOAuthDeps struct {
	Sessions *SessionService       // Required: primary session re-validation
	Authz    *AuthorizationService // Required: module access checks
	Signer   ports.TokenSigner     // Required: federation token signer
}

// SSOConfig groups optional tuning for the broker.
type SSOConfig struct {
	TTL    time.Duration // defaults to DefaultSSOTokenTTL
	Clock  ports.Clock   // defaults to system time
	Logger *slog.Logger
}

// SSOServiceOptions groups dependencies for SSOService.
type SSOServiceOptions struct {
	Stores SSOStores
	Auth   SSOAuthDeps
	Config SSOConfig
}

// SSOService is the federation broker: it mints short-lived, single-use,
// module-scoped tokens from a valid primary session and redeems them exactly
// once on behalf of external modules.
type SSOService struct {
	tokens   ports.SSOTokenRepository
	modules  ports.ModuleDirectory
	users    ports.UserRepository
	sessions *SessionService
	authz    *AuthorizationService
	signer   ports.TokenSigner
	ttl      time.Duration
	clock    ports.Clock
	logger   *slog.Logger
}

// NewSSOService constructs a new SSOService.
func NewSSOService(opts SSOServiceOptions) *SSOService {
	if opts.Stores.Tokens == nil || opts.Stores.Modules == nil || opts.Stores.Users == nil {
		panic("SSO storage dependencies are required")
	}
	if opts.Auth.Sessions == nil || opts.Auth.Authz == nil || opts.Auth.Signer == nil {
		panic("SSO auth dependencies are required")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSSOTokenTTL
	}
	clock := opts.Config.Clock
	if clock == nil {
		clock = ports.RealClock{}
	}
	return &SSOService{
		tokens:   opts.Stores.Tokens,
		modules:  opts.Stores.Modules,
		users:    opts.Stores.Users,
		sessions: opts.Auth.Sessions,
		authz:    opts.Auth.Authz,
		signer:   opts.Auth.Signer,
		ttl:      ttl,
		clock:    clock,
		logger:   opts.Config.Logger,
	}
}

// MintRequest carries inputs for minting a federation token.
type MintRequest struct {
	SessionToken string
	ModuleID     string
	Client       model.ClientInfo
}

// MintResult contains a freshly minted federation grant.
type MintResult struct {
	Token       string    `json:"token"`
	RedirectURL string    `json:"redirect_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Mint creates a single-use token for the target module. The primary
// session is re-validated here rather than assumed from request context, so
// a revoked session can never mint. Authorization is the union of an RBAC
// read permission on the module, a direct module grant, and the super-admin
// bypass.
func (s *SSOService) Mint(ctx context.Context, req MintRequest) (*MintResult, error) {
	authn, err := s.sessions.Validate(ctx, req.SessionToken)
	if err != nil {
		return nil, err
	}
	user := authn.User

	mod, err := s.modules.GetModule(ctx, req.ModuleID)
	if err != nil {
		if apperrors.IsNotFound(err) || apperrors.IsModuleNotFound(err) {
			return nil, apperrors.ModuleNotFound(req.ModuleID)
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	// A deactivated module is not a valid federation target; its existence
	// is not revealed either.
	if !mod.IsActive {
		return nil, apperrors.ModuleNotFound(req.ModuleID)
	}

	allowed, err := s.authorizedForModule(ctx, &user, mod)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.audit(ctx, "sso mint denied", "user_id", user.ID, "module", mod.Name)
		return nil, apperrors.AccessDenied("access to module denied")
	}

	now := s.clock.Now().UTC()
	expiresAt := now.Add(s.ttl)
	signed, err := s.signer.SignSSO(ports.SSOClaims{
		UserID:    user.ID,
		ModuleID:  mod.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return nil, fmt.Errorf("sign sso token: %w", err)
	}

	row := model.SSOToken{
		ID:         uuid.NewString(),
		UserID:     user.ID,
		ModuleID:   mod.ID,
		Token:      signed,
		ExpiresAt:  expiresAt,
		CreatedAt:  now,
		MintClient: req.Client,
	}
	if err := s.tokens.Save(ctx, row); err != nil {
		return nil, apperrors.StorageUnavailable(err)
	}

	redirect, err := buildRedirectURL(mod.URL, signed, user.ID)
	if err != nil {
		return nil, fmt.Errorf("build redirect url: %w", err)
	}

	s.audit(ctx, "sso token minted",
		"user_id", user.ID, "module", mod.Name, "token_id", row.ID, "expires_at", expiresAt)
	return &MintResult{Token: signed, RedirectURL: redirect, ExpiresAt: expiresAt}, nil
}

// RedeemRequest carries inputs for redeeming a federation token.
type RedeemRequest struct {
	Token    string
	ModuleID string
	Client   model.ClientInfo
}

// Redeem consumes a token exactly once on behalf of an external module.
//
// Malformed, wrong-module, expired, and already-used tokens all fail with
// the same TokenInvalid error so the endpoint cannot be used as a
// token-guessing oracle. The validity check and the UsedAt write happen as
// one atomic claim in storage; of N concurrent redemptions exactly one
// succeeds. The user is re-read from the principal store because the token's
// embedded identity is a point-in-time snapshot.
func (s *SSOService) Redeem(ctx context.Context, req RedeemRequest) (*model.SSOUserProjection, error) {
	claims, err := s.signer.ParseSSO(req.Token)
	if err != nil {
		return nil, apperrors.TokenInvalid()
	}
	// A token minted for module A presented to module B is a replay.
	if claims.ModuleID != req.ModuleID {
		s.audit(ctx, "sso redeem rejected", "reason", "module_mismatch",
			"token_module", claims.ModuleID, "caller_module", req.ModuleID)
		return nil, apperrors.TokenInvalid()
	}

	row, err := s.tokens.Claim(ctx, ports.ClaimSSOToken{
		Token:    req.Token,
		ModuleID: req.ModuleID,
		Now:      s.clock.Now().UTC(),
		Client:   req.Client,
	})
	if err != nil {
		if apperrors.IsTokenInvalid(err) {
			return nil, err
		}
		// A redemption that cannot durably record UsedAt must not succeed.
		return nil, apperrors.StorageUnavailable(err)
	}

	user, err := s.users.GetByID(ctx, row.UserID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.UserInactive(row.UserID)
		}
		return nil, apperrors.StorageUnavailable(err)
	}
	if !user.IsActive {
		s.audit(ctx, "sso redeem rejected", "reason", "user_deactivated", "user_id", user.ID)
		return nil, apperrors.UserInactive(user.ID)
	}

	moduleAccess, err := s.authz.ModuleNames(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "sso token redeemed",
		"user_id", user.ID, "module_id", req.ModuleID, "token_id", row.ID)
	return &model.SSOUserProjection{
		ID:           user.ID,
		Email:        user.Email,
		FullName:     user.FullName,
		Role:         user.Role,
		ModuleAccess: moduleAccess,
	}, nil
}

// SweepExpired deletes every token past its absolute expiry, redeemed or
// not, and returns the number removed.
func (s *SSOService) SweepExpired(ctx context.Context) (int64, error) {
	removed, err := s.tokens.DeleteExpired(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("sweep sso tokens: %w", err)
	}
	if removed > 0 && s.logger != nil {
		s.logger.InfoContext(ctx, "expired sso tokens swept", "count", removed)
	}
	return removed, nil
}

func (s *SSOService) authorizedForModule(ctx context.Context, user *model.User, mod *model.Module) (bool, error) {
	if IsSuperAdmin(user) {
		return true, nil
	}
	if user.HasModuleAccess(mod.Name) {
		return true, nil
	}
	return s.authz.HasPermission(ctx, user.ID, mod.Name, model.ActionRead)
}

func buildRedirectURL(moduleURL, token, userID string) (string, error) {
	u, err := url.Parse(moduleURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("sso_token", token)
	q.Set("user_id", userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *SSOService) audit(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}
