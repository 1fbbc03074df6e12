package cache

import (
	"context"

	"go.uber.org/zap"

	"github.com/pimsync/connector/internal/infrastructure/config"
)

// RunCache is the lookup cache shared by the export clients. Clear drops
// every entry and runs at the start of each export run.
type RunCache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// RunCacheFactory creates run caches based on configuration.
type RunCacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// RunCacheFactoryOption is a functional option for configuring the factory.
type RunCacheFactoryOption func(*RunCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) RunCacheFactoryOption {
	return func(f *RunCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory cache
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) RunCacheFactoryOption {
	return func(f *RunCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewRunCacheFactory creates a new factory.
func NewRunCacheFactory(cfg config.RedisConfig, opts ...RunCacheFactoryOption) *RunCacheFactory {
	f := &RunCacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create builds a run cache: Redis when reachable, otherwise the in-memory
// cache if fallback is allowed.
func (f *RunCacheFactory) Create() (RunCache, error) {
	if f.redisConfig.Host != "" {
		cache, err := NewRedisRunCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		})
		if err == nil {
			return cache, nil
		}
		if !f.allowInMemoryFallback {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, using in-memory run cache", zap.Error(err))
	}
	return NewInMemoryRunCache(), nil
}
