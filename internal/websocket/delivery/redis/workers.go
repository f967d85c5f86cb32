package redis

import (
	"context"
	"encoding/json"
	"strings"

	"alert-srv/internal/metrics"
	ws "alert-srv/internal/websocket"

	"github.com/redis/go-redis/v9"
)

func (s *subscriber) handleMessage(ctx context.Context, msg *redis.Message) {
	channel, ok := strings.CutPrefix(msg.Channel, s.prefix+":")
	if !ok || channel == "" {
		metrics.BusMessagesTotal.WithLabelValues("in", metrics.OutcomeSkipped).Inc()
		return
	}

	var m ws.Message
	if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
		s.l.Warnf(ctx, "internal.websocket.delivery.redis.handleMessage: channel=%s: %v", msg.Channel, err)
		metrics.BusMessagesTotal.WithLabelValues("in", metrics.OutcomeFailed).Inc()
		return
	}
	metrics.BusMessagesTotal.WithLabelValues("in", metrics.OutcomeOK).Inc()

	if channel == broadcastSuffix {
		s.reg.Broadcast(ctx, m)
		return
	}
	s.reg.Publish(ctx, channel, m)
}

func (p *publisher) Publish(ctx context.Context, channel string, msg ws.Message) error {
	return p.send(ctx, p.prefix+":"+channel, msg)
}

func (p *publisher) Broadcast(ctx context.Context, msg ws.Message) error {
	return p.send(ctx, p.prefix+":"+broadcastSuffix, msg)
}

func (p *publisher) send(ctx context.Context, channel string, msg ws.Message) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if err := p.redis.Publish(ctx, channel, b); err != nil {
		metrics.BusMessagesTotal.WithLabelValues("out", metrics.OutcomeFailed).Inc()
		return err
	}
	metrics.BusMessagesTotal.WithLabelValues("out", metrics.OutcomeOK).Inc()
	return nil
}
