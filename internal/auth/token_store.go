package auth

import (
	"context"
	"time"

	"newsroom/internal/cache"
)

const revokedSessionKeyPrefix = "revoked_session:"

// TokenStoreInterface defines the interface for session revocation storage.
type TokenStoreInterface interface {
	RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, sessionID string) (bool, error)
}

// TokenStore keeps revoked session IDs in Redis until the session would have expired.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeSession marks a session as logged out. Already expired sessions are skipped.
func (s *TokenStore) RevokeSession(ctx context.Context, sessionID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedSessionKeyPrefix+sessionID, []byte("1"), ttl)
}

// IsSessionRevoked checks whether a session was logged out. When Redis is
// unreachable sessions are treated as live.
func (s *TokenStore) IsSessionRevoked(ctx context.Context, sessionID string) (bool, error) {
	return s.cache.Exists(ctx, revokedSessionKeyPrefix+sessionID), nil
}
