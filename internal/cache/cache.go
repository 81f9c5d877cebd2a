// Package cache wraps Redis for short-lived session state.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures the Redis connection.
type Options struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// Client fails safe: when Redis is unreachable reads behave like a miss and
// writes are dropped. Article data is never stored here.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. No connection is made until first use.
func New(opts Options) *Client {
	return &Client{client: redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})}
}

func (c *Client) disabled() bool {
	return c == nil || c.client == nil
}

// Ping reports whether Redis is reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c.disabled() {
		return nil
	}
	return c.client.Ping(ctx).Err()
}

// Exists reports whether key is present. Redis errors report false.
func (c *Client) Exists(ctx context.Context, key string) bool {
	if c.disabled() {
		return false
	}
	n, err := c.client.Exists(ctx, key).Result()
	return err == nil && n > 0
}

// Set stores value with ttl. Redis errors are dropped.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c.disabled() {
		return nil
	}
	_ = c.client.Set(ctx, key, value, ttl).Err()
	return nil
}

// Close releases the underlying connections.
func (c *Client) Close() error {
	if c.disabled() {
		return nil
	}
	return c.client.Close()
}
