// internal/common/database/redis.go
package database

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"resolution-diagnostic/internal/common/config"

	"github.com/redis/go-redis/v9"
)

const (
	insightKeyPrefix    = "diagnostic:insight:"
	evaluationKeyPrefix = "diagnostic:evaluation:"
)

// RedisClient wraps the Redis client with the two key families the
// diagnostic service owns: per-session insight counters and cached
// evaluation responses.
type RedisClient struct {
	Client     *redis.Client
	insightTTL time.Duration
	cacheTTL   time.Duration
}

// NewRedis creates a new Redis client. It does not dial; call Ping.
func NewRedis(cfg config.RedisConfig) (*RedisClient, error) {
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address is empty")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	return NewRedisFromClient(rdb, cfg), nil
}

// NewRedisFromClient wraps an existing client, e.g. one built by redismock.
func NewRedisFromClient(rdb *redis.Client, cfg config.RedisConfig) *RedisClient {
	return &RedisClient{
		Client:     rdb,
		insightTTL: time.Duration(cfg.InsightTTL) * time.Second,
		cacheTTL:   time.Duration(cfg.CacheTTL) * time.Second,
	}
}

// ConnectRedis builds a client and pings it. A client that cannot reach the
// server is closed before the error is returned.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*RedisClient, error) {
	c, err := NewRedis(cfg)
	if err != nil {
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

// Ping tests the Redis connection
func (c *RedisClient) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (c *RedisClient) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

// NextInsightSequence increments the session's counter and returns the new
// value. The TTL is set when the counter is created so abandoned sessions
// expire. An empty session id yields 0 without touching Redis.
func (c *RedisClient) NextInsightSequence(ctx context.Context, sessionID string) (int64, error) {
	if sessionID == "" {
		return 0, nil
	}

	key := insightKeyPrefix + sessionID
	n, err := c.Client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}

	if n == 1 && c.insightTTL > 0 {
		if err := c.Client.Expire(ctx, key, c.insightTTL).Err(); err != nil {
			return n, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n, nil
}

// CachedEvaluation returns the stored response body for key, if any.
func (c *RedisClient) CachedEvaluation(ctx context.Context, key string) ([]byte, bool, error) {
	body, err := c.Client.Get(ctx, evaluationKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get evaluation %s: %w", key, err)
	}
	return body, true, nil
}

// StoreEvaluation caches a response body under key for the configured TTL.
func (c *RedisClient) StoreEvaluation(ctx context.Context, key string, body []byte) error {
	if err := c.Client.Set(ctx, evaluationKeyPrefix+key, body, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("set evaluation %s: %w", key, err)
	}
	return nil
}

// EvaluationKey hashes a canonical input document into a cache key.
func EvaluationKey(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}
