package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/domain/scoring"
	"github.com/redis/go-redis/v9"
)

// RankingKeyPrefix namespaces every ranking cache key
const RankingKeyPrefix = "ideation:ranking:"

const rankingRowsKey = RankingKeyPrefix + "rows"

// DefaultRankingTTL bounds how long rows live when no write invalidates them
const DefaultRankingTTL = 10 * time.Minute

// RedisRankingCache stores the ranking rows as one JSON value so that
// every instance shares the same memoised result.
type RedisRankingCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRankingCache creates a ranking cache on an existing client
func NewRedisRankingCache(client *redis.Client, ttl time.Duration) *RedisRankingCache {
	if ttl <= 0 {
		ttl = DefaultRankingTTL
	}
	return &RedisRankingCache{client: client, ttl: ttl}
}

// Get returns the cached rows, if any
func (c *RedisRankingCache) Get(ctx context.Context) ([]scoring.Row, bool, error) {
	raw, err := c.client.Get(ctx, rankingRowsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read ranking cache: %w", err)
	}
	var rows []scoring.Row
	if err := json.Unmarshal(raw, &rows); err != nil {
		// a stale encoding counts as a miss
		return nil, false, nil
	}
	return rows, true, nil
}

// Set stores rows with the configured TTL
func (c *RedisRankingCache) Set(ctx context.Context, rows []scoring.Row) error {
	raw, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("failed to encode ranking rows: %w", err)
	}
	if err := c.client.Set(ctx, rankingRowsKey, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write ranking cache: %w", err)
	}
	return nil
}

// Invalidate deletes the cached rows
func (c *RedisRankingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, rankingRowsKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate ranking cache: %w", err)
	}
	return nil
}

var _ ranking.Cache = (*RedisRankingCache)(nil)

// InMemoryRankingCache keeps the rows in process memory. It suits a single
// instance and tests.
type InMemoryRankingCache struct {
	mu        sync.RWMutex
	rows      []scoring.Row
	expiresAt time.Time
	ttl       time.Duration
	now       func() time.Time
}

// NewInMemoryRankingCache creates an empty in-memory ranking cache
func NewInMemoryRankingCache(ttl time.Duration) *InMemoryRankingCache {
	if ttl <= 0 {
		ttl = DefaultRankingTTL
	}
	return &InMemoryRankingCache{ttl: ttl, now: time.Now}
}

// Get returns a copy of the cached rows unless they expired
func (c *InMemoryRankingCache) Get(ctx context.Context) ([]scoring.Row, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.rows == nil || !c.now().Before(c.expiresAt) {
		return nil, false, nil
	}
	out := make([]scoring.Row, len(c.rows))
	copy(out, c.rows)
	return out, true, nil
}

// Set stores a copy of rows
func (c *InMemoryRankingCache) Set(ctx context.Context, rows []scoring.Row) error {
	stored := make([]scoring.Row, len(rows))
	copy(stored, rows)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = stored
	c.expiresAt = c.now().Add(c.ttl)
	return nil
}

// Invalidate drops the cached rows
func (c *InMemoryRankingCache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows = nil
	return nil
}

var _ ranking.Cache = (*InMemoryRankingCache)(nil)
