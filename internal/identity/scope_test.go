package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/kartik48/sunitas-creations/internal/identity"
	"github.com/kartik48/sunitas-creations/pkg/errors"
)

func TestResolveCartScopePrefersUser(t *testing.T) {
	userID := uuid.New()
	ctx := identity.WithSessionID(context.Background(), "guest-cookie")
	ctx = identity.WithUser(ctx, userID, "Asha", false)

	scope, err := identity.ResolveCartScope(ctx)
	if err != nil {
		t.Fatalf("ResolveCartScope returned error: %v", err)
	}
	if !scope.IsUser() {
		t.Fatal("expected user scope when both identities are present")
	}
	if scope.UserID != userID {
		t.Fatalf("user id mismatch: got %s want %s", scope.UserID, userID)
	}
}

func TestResolveCartScopeSessionOnly(t *testing.T) {
	ctx := identity.WithSessionID(context.Background(), "guest-cookie")

	scope, err := identity.ResolveCartScope(ctx)
	if err != nil {
		t.Fatalf("ResolveCartScope returned error: %v", err)
	}
	if scope.Kind != identity.ScopeSession {
		t.Fatalf("expected session scope, got %s", scope.Kind)
	}
	if scope.SessionID != "guest-cookie" {
		t.Fatalf("session id mismatch: got %q", scope.SessionID)
	}
}

func TestResolveCartScopeMissingIdentity(t *testing.T) {
	_, err := identity.ResolveCartScope(context.Background())
	if !errors.IsCode(err, errors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
