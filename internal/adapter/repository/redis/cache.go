package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/sarraf/internal/infrastructure/metrics"
)

// Cache implements usecase.Cache using Redis. The ledger uses it as a
// read-through balance cache; a miss surfaces as redis.Nil and callers fall
// back to storage.
type Cache struct {
	client  *redis.Client
	prefix  string
	metrics *metrics.Metrics
}

// NewCache creates a new Cache. metrics may be nil.
func NewCache(client *redis.Client, m *metrics.Metrics) *Cache {
	return &Cache{
		client:  client,
		prefix:  "sarraf:",
		metrics: m,
	}
}

// Get retrieves a value by key.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.prefix+key).Result()
	if c.metrics != nil {
		if err == nil {
			c.metrics.CacheHits.Inc()
		} else if err == redis.Nil {
			c.metrics.CacheMisses.Inc()
		}
	}

	return value, err
}

// Set stores a value with TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}
