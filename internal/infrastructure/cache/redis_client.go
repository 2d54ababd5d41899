// Package cache provides the Redis-backed session store, recipe cache and
// rate limiter. Every operation here fails open: an unreachable Redis
// degrades the pipeline to "no caching, no rate cap" instead of failing it.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/infrastructure/config"
)

const keyPrefix = "mealforge"

// Client wraps the Redis connection. A Client with a nil connection is valid
// and behaves as an always-missing cache.
type Client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient connects to Redis. When Redis is disabled in config the returned
// client is a no-op; when the initial ping fails the client is still returned
// and individual operations degrade at call time.
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) *Client {
	logger = logger.Named("redis")
	if !cfg.Enable {
		logger.Info("Redis disabled, caching and rate limiting inactive")
		return &Client{logger: logger}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.Database,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolSize:     cfg.PoolSize,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout+time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable at startup, operations will degrade", zap.Error(err))
	}

	return &Client{rdb: rdb, logger: logger}
}

// Available reports whether a connection was configured.
func (c *Client) Available() bool { return c.rdb != nil }

// Close releases the connection pool.
func (c *Client) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}
