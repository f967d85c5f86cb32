package redis

import (
	"context"
	"fmt"

	"alert-srv/config"
	pkgRedis "alert-srv/pkg/redis"
)

// Connect initializes and returns a Redis client
func Connect(ctx context.Context, cfg config.RedisConfig) (pkgRedis.IRedis, error) {
	client, err := pkgRedis.New(pkgRedis.RedisConfig{
		Host:         cfg.Host,
		Port:         cfg.Port,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// Disconnect closes the Redis connection
func Disconnect(client pkgRedis.IRedis) error {
	if client != nil {
		return client.Close()
	}
	return nil
}
