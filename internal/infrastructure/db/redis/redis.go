package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultTimeout  = 5 * time.Second
	defaultPoolSize = 10
)

// Config holds the connection settings shared by the cache and the rate limiter.
type Config struct {
	Addr     string
	Password string
	DB       int
	// Timeout bounds dialing, each read/write, and the startup ping.
	Timeout  time.Duration
	PoolSize int
}

// Option adjusts the client options after Config has been applied.
type Option func(*redis.Options)

// WithClientName tags connections so they show up in CLIENT LIST.
func WithClientName(name string) Option {
	return func(o *redis.Options) { o.ClientName = name }
}

// Connect builds a client from cfg and opts and pings it once. The caller
// owns the client and must Close it on shutdown.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*redis.Client, error) {
	o := clientOptions(cfg, opts...)
	client := redis.NewClient(o)

	pingCtx, cancel := context.WithTimeout(ctx, o.DialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func clientOptions(cfg Config, opts ...Option) *redis.Options {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	pool := cfg.PoolSize
	if pool <= 0 {
		pool = defaultPoolSize
	}

	o := &redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		PoolSize:     pool,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
