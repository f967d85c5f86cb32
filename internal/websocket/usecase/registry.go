package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"alert-srv/internal/metrics"
	ws "alert-srv/internal/websocket"
	"alert-srv/pkg/log"
)

// channel is one membership set. Its lock is held for the whole of a publish so a
// concurrent join or leave lands either before or after the delivery, never during it.
type channel struct {
	mu      sync.Mutex
	members map[string]ws.Session
	closed  bool
}

// member tracks the channels one session has joined. Its lock serializes that
// session's joins, leaves and final drop; once dropped it joins nothing.
type member struct {
	mu      sync.Mutex
	session ws.Session
	joined  map[string]struct{}
	dropped bool
}

type registry struct {
	l log.Logger

	mu       sync.RWMutex
	channels map[string]*channel

	smu      sync.RWMutex
	sessions map[string]*member
}

func NewRegistry(l log.Logger) ws.Registry {
	return &registry{
		l:        l,
		channels: make(map[string]*channel),
		sessions: make(map[string]*member),
	}
}

func (r *registry) Register(s ws.Session) {
	r.smu.Lock()
	defer r.smu.Unlock()
	if _, ok := r.sessions[s.ID()]; ok {
		return
	}
	r.sessions[s.ID()] = &member{session: s, joined: make(map[string]struct{})}
	metrics.SessionsActive.Inc()
}

// Join is a no-op for a session that is not registered or has already been dropped.
func (r *registry) Join(s ws.Session, name string) {
	m := r.member(s.ID())
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dropped {
		return
	}
	for {
		ch := r.channel(name, true)
		ch.mu.Lock()
		if ch.closed {
			// lost a race with the last member leaving; fetch the replacement
			ch.mu.Unlock()
			continue
		}
		ch.members[s.ID()] = s
		ch.mu.Unlock()
		break
	}
	m.joined[name] = struct{}{}
}

func (r *registry) Leave(s ws.Session, name string) {
	m := r.member(s.ID())
	if m == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.joined[name]; !ok {
		return
	}
	r.leave(s, name)
	delete(m.joined, name)
}

func (r *registry) leave(s ws.Session, name string) {
	ch := r.channel(name, false)
	if ch == nil {
		return
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	delete(ch.members, s.ID())
	if len(ch.members) > 0 {
		return
	}

	ch.closed = true
	r.mu.Lock()
	if r.channels[name] == ch {
		delete(r.channels, name)
	}
	r.mu.Unlock()
}

func (r *registry) DropAll(s ws.Session) {
	r.smu.Lock()
	m, ok := r.sessions[s.ID()]
	delete(r.sessions, s.ID())
	r.smu.Unlock()
	if !ok {
		return
	}

	m.mu.Lock()
	m.dropped = true
	for name := range m.joined {
		r.leave(s, name)
	}
	m.joined = nil
	m.mu.Unlock()
	metrics.SessionsActive.Dec()
}

func (r *registry) member(id string) *member {
	r.smu.RLock()
	defer r.smu.RUnlock()
	return r.sessions[id]
}

func (r *registry) Publish(ctx context.Context, name string, msg ws.Message) int {
	ch := r.channel(name, false)
	if ch == nil {
		return 0
	}
	b, err := json.Marshal(msg)
	if err != nil {
		r.l.Errorf(ctx, "internal.websocket.usecase.registry.Publish.Marshal: %v", err)
		return 0
	}

	ch.mu.Lock()
	defer ch.mu.Unlock()
	delivered := 0
	for _, s := range ch.members {
		if r.deliver(ctx, s, name, msg.Event, b) {
			delivered++
		}
	}
	return delivered
}

func (r *registry) Broadcast(ctx context.Context, msg ws.Message) int {
	b, err := json.Marshal(msg)
	if err != nil {
		r.l.Errorf(ctx, "internal.websocket.usecase.registry.Broadcast.Marshal: %v", err)
		return 0
	}

	r.smu.RLock()
	defer r.smu.RUnlock()
	delivered := 0
	for _, m := range r.sessions {
		if r.deliver(ctx, m.session, "*", msg.Event, b) {
			delivered++
		}
	}
	return delivered
}

// deliver pushes b to s. A failure is contained here as a DeliveryError.
func (r *registry) deliver(ctx context.Context, s ws.Session, name, event string, b []byte) bool {
	if err := s.Send(b); err != nil {
		derr := &ws.DeliveryError{SessionID: s.ID(), Channel: name, Event: event, Err: err}
		r.l.Warnf(ctx, "internal.websocket.usecase.registry.deliver: %v", derr)
		metrics.PushesTotal.WithLabelValues(event, metrics.OutcomeFailed).Inc()
		return false
	}
	metrics.PushesTotal.WithLabelValues(event, metrics.OutcomeOK).Inc()
	return true
}

func (r *registry) Stats() ws.Stats {
	r.mu.RLock()
	channels := len(r.channels)
	r.mu.RUnlock()

	r.smu.RLock()
	defer r.smu.RUnlock()
	return ws.Stats{Sessions: len(r.sessions), Channels: channels}
}

// CloseAll closes every session. Each one drops its memberships as its read loop exits.
func (r *registry) CloseAll() {
	r.smu.RLock()
	sessions := make([]ws.Session, 0, len(r.sessions))
	for _, m := range r.sessions {
		sessions = append(sessions, m.session)
	}
	r.smu.RUnlock()

	for _, s := range sessions {
		s.Close()
	}
}

func (r *registry) channel(name string, create bool) *channel {
	r.mu.RLock()
	ch := r.channels[name]
	r.mu.RUnlock()
	if ch != nil || !create {
		return ch
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if ch = r.channels[name]; ch == nil {
		ch = &channel{members: make(map[string]ws.Session)}
		r.channels[name] = ch
	}
	return ch
}
