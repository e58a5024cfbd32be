// Package cache opens Dragonfly/Redis clients.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civica/civica/internal/platform/config"
)

// ParseConfig validates a Redis connection URL and applies client timeouts.
func ParseConfig(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("cache URL is empty")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid cache URL: %w", err)
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	return opts, nil
}

// Open creates a client and checks that the server answers.
func Open(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := ParseConfig(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging cache: %w", err)
	}

	return client, nil
}
