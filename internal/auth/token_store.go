package auth

import (
	"context"
	"time"

	"hotelbook/internal/cache"
)

const revokedTokenKeyPrefix = "blacklist:session:"

// TokenStoreInterface defines the interface for session revocation storage.
type TokenStoreInterface interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
	IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked session ids in Redis until they would have expired.
type TokenStore struct {
	cache *cache.Client
}

// Ensure TokenStore implements TokenStoreInterface
var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// BlacklistToken marks a session id as revoked for ttl. Unlike other cache
// writes, a redis failure is returned.
func (s *TokenStore) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil // already expired
	}
	return s.cache.SetStrict(ctx, revokedTokenKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsTokenBlacklisted checks if a session id was revoked.
func (s *TokenStore) IsTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedTokenKeyPrefix+tokenID)
	if err != nil {
		return false, nil // Not blacklisted if error (fail safe)
	}
	return data != nil, nil
}
