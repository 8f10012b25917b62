// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// SessionContext contains the authenticated front-desk session.
// SessionID is the stable identifier the numbering allocator keys
// reservations on; it is minted once per login.
type SessionContext struct {
	SessionID string
	UserID    string
	Username  string
	Roles     []string
}

type sessionContextKey struct{}

// WithSession adds SessionContext to context.
func WithSession(ctx context.Context, sess *SessionContext) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, sess)
}

// GetSession returns SessionContext from context.
func GetSession(ctx context.Context) *SessionContext {
	if v, ok := ctx.Value(sessionContextKey{}).(*SessionContext); ok {
		return v
	}
	return nil
}

// GetSessionID returns session ID from context or empty string.
func GetSessionID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.SessionID
	}
	return ""
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if s := GetSession(ctx); s != nil {
		return s.UserID
	}
	return ""
}

// HasRole checks if the session's user has a specific role.
func HasRole(ctx context.Context, role string) bool {
	s := GetSession(ctx)
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}
