package job

import (
	"context"
	"time"

	"alert-srv/internal/alert"
)

func (s *sweeper) Start() {
	if s.started.Swap(true) {
		return
	}
	s.l.Infof(context.Background(), "internal.alert.delivery.job.Start: sweeping every %s", s.cfg.Interval)
	go s.loop()
}

func (s *sweeper) loop() {
	defer close(s.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx)
		case <-s.stopCh:
			return
		}
	}
}

// tick logs store failures and leaves the retry to the next interval.
func (s *sweeper) tick(ctx context.Context) {
	_, err := s.uc.Sweep(ctx, alert.SweepInput{
		Trigger:   alert.SweepTriggerTicker,
		BatchSize: s.cfg.BatchSize,
	})
	if err != nil && ctx.Err() == nil {
		s.l.Errorf(ctx, "internal.alert.delivery.job.tick: %v", err)
	}
}

// Shutdown stops the ticker, cancels an in-flight sweep and waits for the loop to exit.
func (s *sweeper) Shutdown(ctx context.Context) error {
	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.doneCh:
		s.l.Info(ctx, "internal.alert.delivery.job.Shutdown: sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
