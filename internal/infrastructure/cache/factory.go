package cache

import (
	"fmt"
	"time"

	"github.com/ideation/backend/internal/application/ranking"
	"github.com/ideation/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Factory connects to Redis once and hands out the caches built on it,
// falling back to in-memory implementations when Redis is not configured
// or unreachable.
type Factory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
	client                *redis.Client
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether an unreachable Redis falls back to
// in-memory caches. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowInMemoryFallback = allow
	}
}

// NewFactory creates a Factory and, when a Redis host is configured,
// connects to it
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) (*Factory, error) {
	f := &Factory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}

	if !cfg.Enabled() {
		f.logger.Info("Redis not configured, using in-memory caches")
		return f, nil
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		if !f.allowInMemoryFallback {
			return nil, fmt.Errorf("Redis required but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory caches. "+
			"Instances will not share the ranking cache or revoked tokens.",
			zap.String("addr", cfg.Addr()),
			zap.Error(err))
		return f, nil
	}

	f.logger.Info("Connected to Redis", zap.String("addr", cfg.Addr()))
	f.client = client
	return f, nil
}

// Client returns the Redis client, or nil when running in memory
func (f *Factory) Client() *redis.Client {
	return f.client
}

// RankingCache returns a Redis-backed ranking cache when connected
func (f *Factory) RankingCache(ttl time.Duration) ranking.Cache {
	if f.client != nil {
		return NewRedisRankingCache(f.client, ttl)
	}
	return NewInMemoryRankingCache(ttl)
}

// Close releases the Redis client
func (f *Factory) Close() error {
	if f.client == nil {
		return nil
	}
	return f.client.Close()
}
