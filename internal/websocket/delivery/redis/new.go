package redis

import (
	"context"
	"sync"

	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"
	pkgRedis "alert-srv/pkg/redis"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultPrefix = "alert-srv:fanout"

	broadcastSuffix = "broadcast"
)

// Subscriber feeds events published by any instance into the local registry.
type Subscriber interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type subscriber struct {
	l      log.Logger
	redis  pkgRedis.IRedis
	reg    ws.Registry
	prefix string

	pubsub *redis.PubSub
	wg     sync.WaitGroup
	quit   chan struct{}
}

func New(l log.Logger, r pkgRedis.IRedis, reg ws.Registry, prefix string) Subscriber {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &subscriber{
		l:      l,
		redis:  r,
		reg:    reg,
		prefix: prefix,
		quit:   make(chan struct{}),
	}
}

type publisher struct {
	l      log.Logger
	redis  pkgRedis.IRedis
	prefix string
}

// NewPublisher returns a Publisher that sends every routed event over Redis, so all
// instances, this one included, deliver it through their subscribers.
func NewPublisher(l log.Logger, r pkgRedis.IRedis, prefix string) ws.Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &publisher{l: l, redis: r, prefix: prefix}
}
