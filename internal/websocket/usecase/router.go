package usecase

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/metrics"
	"alert-srv/internal/model"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"
)

const defaultRouterQueueSize = 1024

// Router turns alert events into channel publishes. It implements alert.Notifier.
type Router interface {
	alert.Notifier
	Start()
	Shutdown(ctx context.Context) error
}

type routedAlert struct {
	ctx   context.Context
	alert model.Alert
}

type router struct {
	l     log.Logger
	pub   ws.Publisher
	clock func() time.Time

	queue    chan routedAlert
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewRouter builds a router that publishes through pub. A single worker drains the
// queue, so publishes on any channel keep alert creation order.
func NewRouter(l log.Logger, pub ws.Publisher, queueSize int) Router {
	if queueSize <= 0 {
		queueSize = defaultRouterQueueSize
	}
	return &router{
		l:      l,
		pub:    pub,
		clock:  time.Now,
		queue:  make(chan routedAlert, queueSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// AlertCreated enqueues a without blocking the caller. A full queue drops the event.
func (r *router) AlertCreated(ctx context.Context, a model.Alert) {
	select {
	case r.queue <- routedAlert{ctx: context.WithoutCancel(ctx), alert: a}:
	default:
		metrics.RouterDroppedTotal.Inc()
		r.l.Warnf(ctx, "internal.websocket.usecase.router.AlertCreated: queue full, dropping alert %s", a.ID)
	}
}

func (r *router) Start() {
	if r.started.Swap(true) {
		return
	}
	go r.run()
}

func (r *router) run() {
	defer close(r.doneCh)
	for {
		select {
		case ra := <-r.queue:
			r.route(ra.ctx, ra.alert)
		case <-r.stopCh:
			r.drain()
			return
		}
	}
}

// drain routes whatever was queued before shutdown.
func (r *router) drain() {
	for {
		select {
		case ra := <-r.queue:
			r.route(ra.ctx, ra.alert)
		default:
			return
		}
	}
}

// route publishes a hospital-wide alert as one broadcast that also covers admin
// sessions. Any other area goes to admin as new-alert and to its area channel as area-alert.
func (r *router) route(ctx context.Context, a model.Alert) {
	now := r.clock()

	newAlert, err := ws.NewMessage(ws.EventNewAlert, a, now)
	if err != nil {
		r.l.Errorf(ctx, "internal.websocket.usecase.router.route.NewMessage: %v", err)
		return
	}

	if a.Area == model.AreaHospitalWide {
		if err := r.pub.Broadcast(ctx, newAlert); err != nil {
			r.l.Warnf(ctx, "internal.websocket.usecase.router.route.Broadcast(%s): %v", a.ID, err)
		}
		return
	}

	if err := r.pub.Publish(ctx, ws.ChannelAdmin, newAlert); err != nil {
		r.l.Warnf(ctx, "internal.websocket.usecase.router.route.Publish(admin, %s): %v", a.ID, err)
	}

	areaAlert, err := ws.NewMessage(ws.EventAreaAlert, ws.AreaEnvelope{Area: a.Area, Alert: a}, now)
	if err != nil {
		r.l.Errorf(ctx, "internal.websocket.usecase.router.route.NewMessage: %v", err)
		return
	}
	if err := r.pub.Publish(ctx, ws.AreaChannel(a.Area), areaAlert); err != nil {
		r.l.Warnf(ctx, "internal.websocket.usecase.router.route.Publish(%s, %s): %v", a.Area, a.ID, err)
	}
}

func (r *router) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.stopCh) })
	if !r.started.Load() {
		return nil
	}

	select {
	case <-r.doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// localPublisher delivers straight into the in-process registry.
type localPublisher struct {
	reg ws.Registry
}

func NewLocalPublisher(reg ws.Registry) ws.Publisher {
	return localPublisher{reg: reg}
}

func (p localPublisher) Publish(ctx context.Context, channel string, msg ws.Message) error {
	p.reg.Publish(ctx, channel, msg)
	return nil
}

func (p localPublisher) Broadcast(ctx context.Context, msg ws.Message) error {
	p.reg.Broadcast(ctx, msg)
	return nil
}
