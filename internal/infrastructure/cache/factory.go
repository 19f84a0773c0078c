package cache

import (
	"github.com/ledgerly/backend/internal/application/report"
	"github.com/ledgerly/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ReportCacheFactory creates the report cache from configuration.
type ReportCacheFactory struct {
	redisConfig   config.RedisConfig
	logger        *zap.Logger
	allowInMemory bool
}

// ReportCacheFactoryOption is a functional option for configuring the factory.
type ReportCacheFactoryOption func(*ReportCacheFactory)

// WithLogger sets the logger for the factory.
func WithLogger(logger *zap.Logger) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory
// cache when Redis is disabled or unreachable. Default is true.
func WithInMemoryFallback(allow bool) ReportCacheFactoryOption {
	return func(f *ReportCacheFactory) {
		f.allowInMemory = allow
	}
}

// NewReportCacheFactory creates a new factory.
func NewReportCacheFactory(cfg config.RedisConfig, opts ...ReportCacheFactoryOption) *ReportCacheFactory {
	f := &ReportCacheFactory{
		redisConfig:   cfg,
		logger:        zap.NewNop(),
		allowInMemory: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis-backed cache when Redis is enabled and
// reachable. An in-memory cache stands in otherwise. In-memory entries
// are not shared across instances, so one instance posting an entry
// will not invalidate reports another instance already cached.
func (f *ReportCacheFactory) Create() (report.Cache, error) {
	if f.redisConfig.Enabled {
		redisCache, err := NewRedisReportCache(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		})
		if err == nil {
			f.logger.Info("using Redis report cache",
				zap.String("addr", f.redisConfig.Addr()))
			return redisCache, nil
		}
		if !f.allowInMemory {
			return nil, err
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory report cache",
			zap.Error(err))
	}
	return NewMemoryReportCache(), nil
}
