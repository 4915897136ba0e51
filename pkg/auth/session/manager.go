package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kartik48/sunitas-creations/pkg/config"
	redisclient "github.com/kartik48/sunitas-creations/pkg/redis"
)

const sessionMarker = "1"

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, keys ...string) error
}

// Manager tracks which minted access tokens are still live. Logout revokes
// the Redis marker so a token stops working before its JWT expiry.
type Manager struct {
	store sessionStore
	ttl   time.Duration
}

// AccessSessionChecker exposes the read-only surface needed by middleware.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, userID, tokenID string) (bool, error)
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.JWTConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	ttl := cfg.AccessTokenTTL()
	if ttl <= 0 {
		return nil, fmt.Errorf("access token ttl must be positive")
	}
	return &Manager{store: client, ttl: ttl}, nil
}

// Create records a live session for the minted token. The marker expires with
// the token, so stale entries never need sweeping.
func (m *Manager) Create(ctx context.Context, userID, tokenID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("user id and token id are required")
	}
	return m.store.Set(ctx, redisclient.AccessSessionKey(userID, tokenID), sessionMarker, m.ttl)
}

// HasSession reports whether the token is still live.
func (m *Manager) HasSession(ctx context.Context, userID, tokenID string) (bool, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return false, fmt.Errorf("user id and token id are required")
	}
	_, ok, err := m.store.Get(ctx, redisclient.AccessSessionKey(userID, tokenID))
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Revoke deletes the session marker tied to the token.
func (m *Manager) Revoke(ctx context.Context, userID, tokenID string) error {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(tokenID) == "" {
		return fmt.Errorf("user id and token id are required")
	}
	return m.store.Del(ctx, redisclient.AccessSessionKey(userID, tokenID))
}
