package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	catalogapp "github.com/trycco/storefront/internal/application/catalog"
	"github.com/trycco/storefront/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	landingKey        = "storefront:landing:v1"
	defaultLandingTTL = 5 * time.Minute
)

// RedisLandingCache stores the rendered landing page as JSON under a single
// key with a TTL. It is shared by all storefront instances.
type RedisLandingCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisLandingCache wraps an existing client. A non-positive ttl uses the default.
func NewRedisLandingCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisLandingCache {
	if ttl <= 0 {
		ttl = defaultLandingTTL
	}
	return &RedisLandingCache{client: client, key: landingKey, ttl: ttl, logger: logger}
}

// Get returns nil, nil on a miss.
func (c *RedisLandingCache) Get(ctx context.Context) (*catalogapp.Landing, error) {
	raw, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read landing cache: %w", err)
	}

	var landing catalogapp.Landing
	if err := json.Unmarshal(raw, &landing); err != nil {
		// A stale layout from an older release; drop it and rebuild.
		c.logger.Warn("discarding undecodable landing cache entry", zap.Error(err))
		_ = c.client.Del(ctx, c.key).Err()
		return nil, nil
	}
	return &landing, nil
}

func (c *RedisLandingCache) Set(ctx context.Context, landing *catalogapp.Landing) error {
	raw, err := json.Marshal(landing)
	if err != nil {
		return fmt.Errorf("failed to encode landing page: %w", err)
	}
	if err := c.client.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write landing cache: %w", err)
	}
	return nil
}

func (c *RedisLandingCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("failed to invalidate landing cache: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisLandingCache) Close() error {
	return c.client.Close()
}

var _ catalogapp.LandingCache = (*RedisLandingCache)(nil)
