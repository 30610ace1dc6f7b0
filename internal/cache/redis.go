package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"querybridge/internal/translator"
)

// RedisCache implements TranslationCache on Redis. Expiration is delegated
// to Redis TTLs, so EvictExpired is a no-op and Stats never reports expired
// entries.
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, prefix string, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisCache) key(fp string) string {
	if c.prefix == "" {
		return "xl8:" + fp
	}
	return c.prefix + ":xl8:" + fp
}

// Get retrieves a result. On a Redis error it returns (nil, false, err) so
// the caller can log and treat it as a miss.
func (c *RedisCache) Get(ctx context.Context, key Key) (*translator.Result, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("context error: %w", err)
	}

	data, err := c.client.Get(ctx, c.key(key.Fingerprint())).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var result translator.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &result, true, nil
}

// Set stores a result with the configured TTL.
func (c *RedisCache) Set(ctx context.Context, key Key, result *translator.Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key.Fingerprint()), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

// EvictExpired is a no-op; Redis expires keys natively.
func (c *RedisCache) EvictExpired(ctx context.Context) (int, error) {
	return 0, ctx.Err()
}

// Stats counts keys under the cache prefix via SCAN.
func (c *RedisCache) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{TTL: c.ttl}

	var cursor uint64
	pattern := c.key("*")
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 500).Result()
		if err != nil {
			return stats, fmt.Errorf("redis scan failed: %w", err)
		}
		stats.TotalEntries += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	stats.ActiveEntries = stats.TotalEntries
	return stats, nil
}

// Ping checks if the Redis connection is healthy.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
