package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oggyb/skillswap/internal/config"
)

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

// KeyForPendingCounts generates the Redis key for a user's pending
// swap-request counters (sent/received).
func (c *RedisCache) KeyForPendingCounts(userID uint64) string {
	return fmt.Sprintf("requests:pending:%d", userID)
}

// GetPendingCounts reads cached sent/received pending-request counts.
// A cache miss returns ok=false, not an error.
func (c *RedisCache) GetPendingCounts(ctx context.Context, userID uint64) (sent, received int, ok bool, err error) {
	key := c.KeyForPendingCounts(userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, 0, false, nil
	} else if err != nil {
		return 0, 0, false, err
	}
	if _, err := fmt.Sscanf(val, "%d:%d", &sent, &received); err != nil {
		// unparseable value, treat as a miss and let the caller repopulate
		return 0, 0, false, nil
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, time.Hour).Err()
	return sent, received, true, nil
}

// SetPendingCounts stores sent/received pending-request counts with a 1h TTL.
func (c *RedisCache) SetPendingCounts(ctx context.Context, userID uint64, sent, received int) error {
	key := c.KeyForPendingCounts(userID)
	return c.Client.Set(ctx, key, fmt.Sprintf("%d:%d", sent, received), time.Hour).Err()
}

// InvalidatePendingCounts drops the cached counters for a user. Called by
// every command that changes a request's pending state.
func (c *RedisCache) InvalidatePendingCounts(ctx context.Context, userID uint64) error {
	return c.Client.Del(ctx, c.KeyForPendingCounts(userID)).Err()
}
