package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList tracks tokens that must be rejected before they expire:
// single tokens revoked on logout, and every token of a user issued before a
// password reset.
type RevocationList interface {
	// Revoke rejects the token with the given JTI for ttl, which should be the
	// token's remaining lifetime
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	IsRevoked(ctx context.Context, jti string) (bool, error)

	// RevokeUser rejects every token of the user issued up to now
	RevokeUser(ctx context.Context, userID string, ttl time.Duration) error

	IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error)
}

const revocationKeyPrefix = "ideation:revoked:"

// RedisRevocationList implements RevocationList on Redis keys with TTLs
type RedisRevocationList struct {
	client *redis.Client
}

// NewRedisRevocationList creates a revocation list on an existing client
func NewRedisRevocationList(client *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{client: client}
}

func jtiKey(jti string) string {
	return revocationKeyPrefix + "jti:" + jti
}

func userKey(userID string) string {
	return revocationKeyPrefix + "user:" + userID
}

// Revoke stores the JTI until the token would have expired anyway
func (r *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, jtiKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether the JTI was revoked
func (r *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, jtiKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeUser stores the current unix time as the user's cutoff
func (r *RedisRevocationList) RevokeUser(ctx context.Context, userID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, userKey(userID), time.Now().Unix(), ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke user tokens: %w", err)
	}
	return nil
}

// IsUserRevoked reports whether issuedAt is at or before the user's cutoff
func (r *RedisRevocationList) IsUserRevoked(ctx context.Context, userID string, issuedAt time.Time) (bool, error) {
	raw, err := r.client.Get(ctx, userKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check user revocation: %w", err)
	}
	cutoff, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false, fmt.Errorf("failed to parse revocation cutoff: %w", err)
	}
	return issuedAt.Unix() <= cutoff, nil
}

var _ RevocationList = (*RedisRevocationList)(nil)

// MemoryRevocationList is a process-local RevocationList used when Redis is
// not configured and in tests. Entries are not shared between instances.
type MemoryRevocationList struct {
	mu      sync.Mutex
	jtis    map[string]time.Time // jti -> expiry
	cutoffs map[string]time.Time // user -> cutoff
	now     func() time.Time
}

// NewMemoryRevocationList creates an empty in-memory revocation list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		jtis:    make(map[string]time.Time),
		cutoffs: make(map[string]time.Time),
		now:     time.Now,
	}
}

// Revoke records the JTI until now+ttl
func (m *MemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jtis[jti] = m.now().Add(ttl)
	return nil
}

// IsRevoked reports whether the JTI is revoked, dropping expired entries
func (m *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.jtis[jti]
	if !ok {
		return false, nil
	}
	if m.now().After(expiry) {
		delete(m.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeUser sets the user's cutoff to now
func (m *MemoryRevocationList) RevokeUser(_ context.Context, userID string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cutoffs[userID] = m.now()
	return nil
}

// IsUserRevoked reports whether issuedAt is at or before the user's cutoff
func (m *MemoryRevocationList) IsUserRevoked(_ context.Context, userID string, issuedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff, ok := m.cutoffs[userID]
	if !ok {
		return false, nil
	}
	return !issuedAt.After(cutoff), nil
}

var _ RevocationList = (*MemoryRevocationList)(nil)
