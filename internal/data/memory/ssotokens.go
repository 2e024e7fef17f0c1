package memory

import (
	"context"
	"sync"
	"time"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
	"github.com/centralhub/hub-core/internal/ports"
)

// SSOTokenStore is an in-memory federation token table indexed by token.
// Claim performs the single-use compare-and-set under the write lock, so at
// most one of N concurrent redemptions of the same token succeeds.
type SSOTokenStore struct {
	mu      sync.Mutex
	byToken map[string]model.SSOToken
}

var _ ports.SSOTokenRepository = (*SSOTokenStore)(nil)

// NewSSOTokenStore creates an empty SSOTokenStore.
func NewSSOTokenStore() *SSOTokenStore {
	return &SSOTokenStore{byToken: make(map[string]model.SSOToken)}
}

// Save persists a token row keyed by its token string.
func (s *SSOTokenStore) Save(_ context.Context, token model.SSOToken) error {
	if token.Token == "" {
		return apperrors.Validation("sso token cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[token.Token] = token
	return nil
}

// GetByToken returns the token row regardless of state. Audit helper; the
// redemption path uses Claim.
func (s *SSOTokenStore) GetByToken(_ context.Context, token string) (*model.SSOToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byToken[token]
	if !ok {
		return nil, apperrors.NotFound("sso token not found")
	}
	out := row
	return &out, nil
}

// Claim atomically redeems a token. Absent, module-mismatched, expired, and
// already-used rows all collapse into TokenInvalid so callers cannot probe
// which case occurred.
func (s *SSOTokenStore) Claim(_ context.Context, claim ports.ClaimSSOToken) (*model.SSOToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.byToken[claim.Token]
	if !ok || row.ModuleID != claim.ModuleID || row.Used() || row.Expired(claim.Now) {
		return nil, apperrors.TokenInvalid()
	}
	usedAt := claim.Now
	row.UsedAt = &usedAt
	client := claim.Client
	row.RedeemClient = &client
	s.byToken[claim.Token] = row
	out := row
	return &out, nil
}

// DeleteExpired removes all tokens past expiry, redeemed or not, and returns
// the count.
func (s *SSOTokenStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, row := range s.byToken {
		if row.Expired(now) {
			delete(s.byToken, token)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored tokens. Test helper.
func (s *SSOTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byToken)
}
