package httpx

import (
	"context"

	"github.com/centralhub/hub-core/internal/service"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *service.AuthenticatedSession) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetSessionFromContext returns the validated session from context and a
// boolean indicating presence.
func GetSessionFromContext(ctx context.Context) (*service.AuthenticatedSession, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*service.AuthenticatedSession); ok && session != nil {
		return session, true
	}
	return nil, false
}
