package redis

import (
	"context"
	"fmt"
)

func (s *subscriber) Start(ctx context.Context) error {
	pattern := s.prefix + ":*"
	s.pubsub = s.redis.PSubscribe(ctx, pattern)

	// wait for the subscription to be confirmed so no early publish is missed
	if _, err := s.pubsub.Receive(ctx); err != nil {
		_ = s.pubsub.Close()
		return fmt.Errorf("internal.websocket.delivery.redis.Start: subscribe %s: %w", pattern, err)
	}

	s.wg.Add(1)
	go s.listen(context.WithoutCancel(ctx))

	s.l.Infof(ctx, "internal.websocket.delivery.redis.Start: subscribed to %s", pattern)
	return nil
}

// listen handles messages one at a time, which keeps per-channel order.
func (s *subscriber) listen(ctx context.Context) {
	defer s.wg.Done()

	ch := s.pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				s.l.Warnf(ctx, "internal.websocket.delivery.redis.listen: pubsub channel closed")
				return
			}
			s.handleMessage(ctx, msg)
		case <-s.quit:
			return
		}
	}
}

func (s *subscriber) Shutdown(ctx context.Context) error {
	select {
	case <-s.quit:
		return nil
	default:
		close(s.quit)
	}

	if s.pubsub != nil {
		if err := s.pubsub.Close(); err != nil {
			s.l.Errorf(ctx, "internal.websocket.delivery.redis.Shutdown: %v", err)
		}
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		s.l.Info(ctx, "internal.websocket.delivery.redis.Shutdown: subscriber stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
