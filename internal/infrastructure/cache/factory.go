package cache

import (
	"fmt"
	"io"

	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Cache drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewLandingCache builds the landing cache selected by cfg.Cache.Driver. The
// none driver returns a nil cache, which disables caching. When Redis is
// unreachable the in-memory cache is used instead.
func NewLandingCache(cfg *config.Config, logger *zap.Logger) (catalogapp.LandingCache, io.Closer, error) {
	switch cfg.Cache.Driver {
	case DriverNone:
		logger.Info("landing cache disabled")
		return nil, nopCloser{}, nil
	case "", DriverMemory:
		logger.Info("using in-memory landing cache", zap.Duration("ttl", cfg.Cache.LandingTTL))
		return NewInMemoryLandingCache(cfg.Cache.LandingTTL), nopCloser{}, nil
	case DriverRedis:
		client, err := NewRedisClient(cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory landing cache. "+
				"Instances will not share the cached landing page.",
				zap.String("addr", cfg.Redis.Addr()),
				zap.Error(err),
			)
			return NewInMemoryLandingCache(cfg.Cache.LandingTTL), nopCloser{}, nil
		}
		logger.Info("using Redis landing cache", zap.String("addr", cfg.Redis.Addr()))
		c := NewRedisLandingCache(client, cfg.Cache.LandingTTL, logger)
		return c, c, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
