package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	portssvc "github.com/SscSPs/erp_finance_core/internal/core/ports/services"
)

const keyPrefix = "erp:statement:"

// RedisStatementCache stores generated statements as JSON. Keys embed the
// ledger version, so entries never need explicit invalidation; the TTL only
// bounds memory.
type RedisStatementCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisStatementCache(client redis.Cmdable, ttl time.Duration) *RedisStatementCache {
	return &RedisStatementCache{client: client, ttl: ttl}
}

var _ portssvc.StatementCache = (*RedisStatementCache)(nil)

func (c *RedisStatementCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cached statement %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached statement %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisStatementCache) Set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode statement %s: %w", key, err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache statement %s: %w", key, err)
	}
	return nil
}

// NewRedisClient parses url (redis://...) and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
