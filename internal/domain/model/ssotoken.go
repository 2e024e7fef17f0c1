package model

import "time"

// ClientInfo records the network origin observed at mint or redemption time.
type ClientInfo struct {
	IP        string `json:"ip"`
	UserAgent string `json:"user_agent"`
}

// SSOToken is a short-lived, single-use federation grant scoped to one
// module. A token with a non-nil UsedAt is permanently invalid regardless of
// expiry; redemption marks UsedAt atomically with the validity check.
type SSOToken struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	ModuleID     string      `json:"module_id"`
	Token        string      `json:"token"`
	ExpiresAt    time.Time   `json:"expires_at"`
	CreatedAt    time.Time   `json:"created_at"`
	UsedAt       *time.Time  `json:"used_at,omitempty"`
	MintClient   ClientInfo  `json:"mint_client"`
	RedeemClient *ClientInfo `json:"redeem_client,omitempty"`
}

// Expired reports whether the token's absolute expiry has passed.
func (t SSOToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Used reports whether the token has been redeemed. Redeemed status takes
// precedence over expiry for audit purposes; both mean "not usable".
func (t SSOToken) Used() bool {
	return t.UsedAt != nil
}

// SSOUserProjection is the minimal user view returned to an external module
// on successful redemption. Role and module access are re-read from the
// principal store at redemption time, never trusted from the token.
type SSOUserProjection struct {
	ID           string   `json:"id"`
	Email        string   `json:"email"`
	FullName     string   `json:"full_name"`
	Role         RoleName `json:"role"`
	ModuleAccess []string `json:"module_access"`
}
