package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCacheConfig configures the Redis cache backend.
type RedisCacheConfig struct {
	// Addr is the host:port of the Redis server.
	Addr string

	// Password is optional.
	Password string

	// DB selects the logical database.
	DB int

	// KeyPrefix namespaces this client's keys. Defaults to "crossref".
	KeyPrefix string
}

// RedisCache stores cache entries in Redis with native TTL expiry, so state
// survives across process instances sharing the server.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(config *RedisCacheConfig) (*RedisCache, error) {
	if config == nil || config.Addr == "" {
		return nil, ErrRedisConfigRequired
	}

	prefix := config.KeyPrefix
	if prefix == "" {
		prefix = "crossref"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	return &RedisCache{client: client, prefix: prefix}, nil
}

func (c *RedisCache) redisKey(key string) string {
	return c.prefix + ":" + key
}

// Get retrieves an entry.
func (c *RedisCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	data, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrCacheKeyNotFound, key)
		}

		return nil, fmt.Errorf("reading redis entry: %w", err)
	}

	var entry CacheEntry

	err = json.Unmarshal(data, &entry)
	if err != nil {
		return nil, fmt.Errorf("decoding redis entry: %w", err)
	}

	if entry.Expired() {
		_ = c.client.Del(ctx, c.redisKey(key)).Err()

		return nil, fmt.Errorf("%w: %s", ErrCacheEntryExpired, key)
	}

	return &entry, nil
}

// Set stores an entry with a TTL matching its expiry.
func (c *RedisCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encoding redis entry: %w", err)
	}

	ttl := time.Until(entry.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	err = c.client.Set(ctx, c.redisKey(key), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("writing redis entry: %w", err)
	}

	return nil
}

// Delete removes an entry.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	err := c.client.Del(ctx, c.redisKey(key)).Err()
	if err != nil {
		return fmt.Errorf("deleting redis entry: %w", err)
	}

	return nil
}

// Clear removes all entries under this client's prefix.
func (c *RedisCache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, c.prefix+":*", 0).Iterator()

	for iter.Next(ctx) {
		err := c.client.Del(ctx, iter.Val()).Err()
		if err != nil {
			return fmt.Errorf("deleting redis entry: %w", err)
		}
	}

	if err := iter.Err(); err != nil {
		return fmt.Errorf("scanning redis keys: %w", err)
	}

	return nil
}

// Has reports whether a live entry exists for key.
func (c *RedisCache) Has(ctx context.Context, key string) bool {
	n, err := c.client.Exists(ctx, c.redisKey(key)).Result()

	return err == nil && n > 0
}

// Close releases the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
