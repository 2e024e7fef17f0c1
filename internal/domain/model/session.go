package model

import "time"

// Session is a primary authentication session. The bearer token doubles as
// the lookup key; one token maps to exactly one session. Revocation works by
// deleting the row, which is why token validation must consult storage in
// addition to verifying the signature.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
