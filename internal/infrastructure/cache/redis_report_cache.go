package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// RedisReportCache stores rendered reports in Redis. It is suitable
// for deployments where several instances serve the same companies and
// a posting on one instance must invalidate reports cached by another.
type RedisReportCache struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisReportCache connects to Redis and verifies the connection.
func NewRedisReportCache(cfg RedisConfig) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisReportCache{
		client:    client,
		keyPrefix: "report:",
	}, nil
}

// NewRedisReportCacheWithClient wraps an existing Redis client. Useful
// for testing or when sharing a client across components.
func NewRedisReportCacheWithClient(client *redis.Client, keyPrefix string) *RedisReportCache {
	if keyPrefix == "" {
		keyPrefix = "report:"
	}
	return &RedisReportCache{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

func (c *RedisReportCache) key(companyID uuid.UUID, key string) string {
	return c.keyPrefix + companyID.String() + ":" + key
}

// Get returns the cached payload, or shared.ErrNotFound on a miss.
func (c *RedisReportCache) Get(ctx context.Context, companyID uuid.UUID, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, c.key(companyID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}
	return payload, nil
}

// Set stores a payload with the given TTL.
func (c *RedisReportCache) Set(ctx context.Context, companyID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(companyID, key), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}
	return nil
}

// InvalidateCompany drops every cached report for one company. Other
// companies' entries are untouched.
func (c *RedisReportCache) InvalidateCompany(ctx context.Context, companyID uuid.UUID) error {
	pattern := c.keyPrefix + companyID.String() + ":*"
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cached reports: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached reports: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection.
func (c *RedisReportCache) Close() error {
	return c.client.Close()
}
