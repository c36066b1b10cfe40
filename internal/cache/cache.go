package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"hotelbook/internal/observability"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client.
func New(addr, password string, db int) *Client {
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// NewFromClient wraps an existing Redis client.
func NewFromClient(rdb *redis.Client) *Client {
	return &Client{client: rdb}
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		observability.ObserveCache("redis", "miss")
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		observability.ObserveCache("redis", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache get failed")
		return nil, nil
	}
	observability.ObserveCache("redis", "hit")
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		// fail safe: ignore redis errors
		observability.ObserveCache("redis", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
		return nil
	}
	observability.ObserveCache("redis", "set")
	return nil
}

// ErrUnavailable is returned by the strict operations when no redis client is
// configured.
var ErrUnavailable = errors.New("cache: redis not configured")

// SetStrict stores value with TTL and reports redis errors. Use it for writes
// that must not be lost silently.
func (c *Client) SetStrict(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return ErrUnavailable
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		observability.ObserveCache("redis", "error")
		return err
	}
	observability.ObserveCache("redis", "set")
	return nil
}

// Incr increments a counter and returns the new value, or 0 if redis is
// unavailable.
func (c *Client) Incr(ctx context.Context, key string) int64 {
	if c == nil || c.client == nil {
		return 0
	}
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		observability.ObserveCache("redis", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache incr failed")
		return 0
	}
	return n
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		observability.ObserveCache("redis", "error")
		log.Warn().Err(err).Str("key", key).Msg("cache delete failed")
		return nil
	}
	observability.ObserveCache("redis", "del")
	return nil
}
