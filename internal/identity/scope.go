package identity

import (
	"context"

	"github.com/google/uuid"

	"github.com/kartik48/sunitas-creations/pkg/errors"
)

// ScopeKind distinguishes the two cart ownership modes.
type ScopeKind string

const (
	ScopeUser    ScopeKind = "user"
	ScopeSession ScopeKind = "session"
)

// CartScope identifies which cart a request operates on. An authenticated
// request always resolves to its user scope, even when a guest cookie is also
// present.
type CartScope struct {
	Kind      ScopeKind
	UserID    uuid.UUID
	SessionID string
}

// UserScope builds a scope owned by the given user.
func UserScope(userID uuid.UUID) CartScope {
	return CartScope{Kind: ScopeUser, UserID: userID}
}

// SessionScope builds a scope owned by an anonymous cart session.
func SessionScope(sessionID string) CartScope {
	return CartScope{Kind: ScopeSession, SessionID: sessionID}
}

// IsUser reports whether the scope belongs to an authenticated user.
func (s CartScope) IsUser() bool {
	return s.Kind == ScopeUser
}

// LogID returns the identifier used when tagging log lines.
func (s CartScope) LogID() string {
	if s.IsUser() {
		return s.UserID.String()
	}
	return s.SessionID
}

// ResolveCartScope derives the cart scope from the request context. The user
// identity wins over the session cookie when both are present.
func ResolveCartScope(ctx context.Context) (CartScope, error) {
	if userID := UserIDFromContext(ctx); userID != uuid.Nil {
		return UserScope(userID), nil
	}
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		return SessionScope(sessionID), nil
	}
	return CartScope{}, errors.New(errors.CodeUnauthorized, "no cart identity on request")
}
