package cache

import (
	"fmt"

	appsettings "github.com/koperasi/backend/internal/application/settings"
	"github.com/koperasi/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// CacheFactory creates settings caches based on configuration
type CacheFactory struct {
	redisConfig           config.RedisConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// CacheFactoryOption is a functional option for configuring the factory
type CacheFactoryOption func(*CacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to an in-memory cache when Redis is unavailable
// Default is true (allow fallback)
func WithInMemoryFallback(allow bool) CacheFactoryOption {
	return func(f *CacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewCacheFactory creates a new factory
func NewCacheFactory(cfg config.RedisConfig, opts ...CacheFactoryOption) *CacheFactory {
	f := &CacheFactory{
		redisConfig:           cfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateRedisCache creates a Redis-backed settings cache
func (f *CacheFactory) CreateRedisCache() (appsettings.Cache, error) {
	redisCfg := RedisConfig{
		Host:     f.redisConfig.Host,
		Port:     f.redisConfig.Port,
		Password: f.redisConfig.Password,
		DB:       f.redisConfig.DB,
	}

	c, err := NewRedisCache(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}

	return c, nil
}

// CreateInMemoryCache creates an in-memory settings cache
// WARNING: In-memory caches do not share state across process instances,
// so invalidations are not seen by other instances in distributed deployments
func (f *CacheFactory) CreateInMemoryCache() appsettings.Cache {
	return NewInMemoryCache()
}

// CreateCache creates a settings cache based on whether Redis is available
// It tries Redis first, and falls back to in-memory if Redis is not available
// and AllowInMemoryFallback is true
func (f *CacheFactory) CreateCache() (appsettings.Cache, error) {
	c, err := f.CreateRedisCache()
	if err == nil {
		f.logger.Info("using Redis settings cache")
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("Redis required for settings cache but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory settings cache. "+
		"Invalidations will not propagate across instances.",
		zap.Error(err),
	)
	return f.CreateInMemoryCache(), nil
}
