package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// IRedis is the subset of Redis this service relies on: pub/sub and health.
type IRedis interface {
	Publish(ctx context.Context, channel string, message any) error
	PSubscribe(ctx context.Context, patterns ...string) *goredis.PubSub
	Ping(ctx context.Context) error
	Close() error
	GetClient() *goredis.Client
}

// New dials Redis and pings it once before returning.
func New(cfg RedisConfig) (IRedis, error) {
	if cfg.Host == "" {
		return nil, ErrHostRequired
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, ErrInvalidPort
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if cfg.MinIdleConns < 0 {
		cfg.MinIdleConns = DefaultMinIdleConns
	}

	client := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), DefaultConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrConnect, err)
	}

	return &redisImpl{client: client}, nil
}

// NewFromClient wraps an existing client.
func NewFromClient(client *goredis.Client) IRedis {
	return &redisImpl{client: client}
}

func (r *redisImpl) Publish(ctx context.Context, channel string, message any) error {
	return r.client.Publish(ctx, channel, message).Err()
}

func (r *redisImpl) PSubscribe(ctx context.Context, patterns ...string) *goredis.PubSub {
	return r.client.PSubscribe(ctx, patterns...)
}

func (r *redisImpl) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisImpl) Close() error {
	return r.client.Close()
}

func (r *redisImpl) GetClient() *goredis.Client {
	return r.client
}
