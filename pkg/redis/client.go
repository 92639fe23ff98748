package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dykim-quant/valo/pkg/config"
	"github.com/dykim-quant/valo/pkg/logger"
)

// Client wraps go-redis with an enabled flag so the pipeline can run
// without a Redis instance (all cache operations become no-ops).
type Client struct {
	rdb     *goredis.Client
	enabled bool
	logger  *logger.Logger
}

// New creates a Redis client from config. When Redis is disabled or
// unreachable the client is returned in disabled mode rather than failing:
// caching is an optimization, not a dependency.
func New(cfg *config.Config, log *logger.Logger) *Client {
	if !cfg.Redis.Enabled {
		log.Info("Redis disabled by config")
		return &Client{enabled: false, logger: log}
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.WithError(err).Warn("Redis unreachable, continuing without cache")
		return &Client{enabled: false, logger: log}
	}

	return &Client{rdb: rdb, enabled: true, logger: log}
}

// Enabled reports whether the client has a live connection.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying go-redis client.
func (c *Client) Redis() *goredis.Client {
	return c.rdb
}

// Close closes the connection.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}
