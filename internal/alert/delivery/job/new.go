package job

import (
	"context"
	"sync/atomic"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/pkg/log"
)

const DefaultInterval = 60 * time.Second

// Sweeper runs the expiration sweep on a fixed interval until shut down.
type Sweeper interface {
	Start()
	Shutdown(ctx context.Context) error
}

type Config struct {
	Interval  time.Duration
	BatchSize int
}

type sweeper struct {
	l   log.Logger
	uc  alert.UseCase
	cfg Config

	started atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func New(l log.Logger, uc alert.UseCase, cfg Config) Sweeper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &sweeper{
		l:      l,
		uc:     uc,
		cfg:    cfg,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}
