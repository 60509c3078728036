package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenRevocationList invalidates JWT tokens before they expire (e.g., on logout)
type TokenRevocationList interface {
	// Revoke adds a token's JTI (JWT ID) to the revocation list
	// ttl should be set to the remaining time until token expiration
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked checks if a token's JTI has been revoked
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisTokenRevocationList implements TokenRevocationList using Redis
type RedisTokenRevocationList struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisTokenRevocationList creates a revocation list with an existing Redis client
func NewRedisTokenRevocationList(client *redis.Client) *RedisTokenRevocationList {
	return &RedisTokenRevocationList{
		client:    client,
		keyPrefix: "token:revoked:",
	}
}

// Revoke adds a token's JTI to the revocation list
func (l *RedisTokenRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := l.client.Set(ctx, l.keyPrefix+jti, "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks if a token's JTI has been revoked
func (l *RedisTokenRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	exists, err := l.client.Exists(ctx, l.keyPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}

// Ensure RedisTokenRevocationList implements TokenRevocationList
var _ TokenRevocationList = (*RedisTokenRevocationList)(nil)

// InMemoryTokenRevocationList provides an in-memory implementation for
// single-instance deployments and testing
type InMemoryTokenRevocationList struct {
	mu      sync.Mutex
	revoked map[string]time.Time // JTI -> expiration time
}

// NewInMemoryTokenRevocationList creates a new in-memory revocation list
func NewInMemoryTokenRevocationList() *InMemoryTokenRevocationList {
	return &InMemoryTokenRevocationList{
		revoked: make(map[string]time.Time),
	}
}

// Revoke adds a token's JTI to the in-memory revocation list
func (l *InMemoryTokenRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revoked[jti] = time.Now().Add(ttl)
	return nil
}

// IsRevoked checks if a token's JTI is revoked (and the entry not expired)
func (l *InMemoryTokenRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	expiration, exists := l.revoked[jti]
	if !exists {
		return false, nil
	}

	// Once the token itself has expired the entry can be dropped
	if time.Now().After(expiration) {
		delete(l.revoked, jti)
		return false, nil
	}

	return true, nil
}

// Ensure InMemoryTokenRevocationList implements TokenRevocationList
var _ TokenRevocationList = (*InMemoryTokenRevocationList)(nil)
