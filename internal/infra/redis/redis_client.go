package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"coaching-subscription/internal/config"
)

// Client is the shared connection used for cross-instance coordination.
type Client struct {
	cli *redis.Client
}

func NewClient(ctx context.Context, cfg *config.RedisConfig) (*Client, error) {
	opts := &redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	c := redis.NewClient(opts)
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.URL, err)
	}
	return &Client{cli: c}, nil
}

func (c *Client) Close() error { return c.cli.Close() }
