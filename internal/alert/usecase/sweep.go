package usecase

import (
	"context"
	"errors"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/metrics"
)

const (
	sweepKey          = "sweep"
	defaultSweepBatch = 100
)

// Sweep expires every active alert whose expiresAt has passed. Concurrent calls
// share one run: a slow tick never overlaps the next one or a manual trigger.
func (uc *implUseCase) Sweep(ctx context.Context, ip alert.SweepInput) (alert.SweepOutput, error) {
	led := false
	v, err, _ := uc.sweeps.Do(sweepKey, func() (any, error) {
		led = true
		return uc.sweep(ctx, ip)
	})
	out, _ := v.(alert.SweepOutput)
	if !led {
		out.Shared = true
		metrics.SweepRunsTotal.WithLabelValues(ip.Trigger, metrics.OutcomeSkipped).Inc()
	}
	return out, err
}

// sweep pages through due alerts in batches. Each record is expired in its own
// Update, so no lock is held across records. A record that fails is excluded from
// the rest of the run, so the next batch moves past it; it stays active and is
// picked up again by the next tick. The run stops once a batch comes back short.
func (uc *implUseCase) sweep(ctx context.Context, ip alert.SweepInput) (alert.SweepOutput, error) {
	start := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(start).Seconds()) }()

	batch := ip.BatchSize
	if batch <= 0 {
		batch = defaultSweepBatch
	}

	var out alert.SweepOutput
	var failed []string
	seen := make(map[string]bool)
	now := uc.clock()
	for {
		due, err := uc.listDue(ctx, now, batch, failed)
		if err != nil {
			metrics.SweepRunsTotal.WithLabelValues(ip.Trigger, metrics.OutcomeFailed).Inc()
			return out, err
		}

		fresh := false
		for _, a := range due {
			if ctx.Err() != nil {
				break
			}
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			fresh = true
			out.Scanned++
			_, err := uc.Expire(ctx, a.ID)
			switch {
			case err == nil:
				out.Expired++
			case errors.Is(err, alert.ErrInvalidTransition), errors.Is(err, alert.ErrAlertNotFound):
				// resolved or removed between scan and write
				out.Skipped++
			default:
				out.Failed++
				failed = append(failed, a.ID)
				uc.l.Errorf(ctx, "internal.alert.usecase.sweep.Expire(%s): %v", a.ID, err)
			}
		}

		// a batch of only already-seen records means the store ignored the exclusion
		if len(due) < batch || !fresh || ctx.Err() != nil {
			break
		}
	}

	metrics.SweepExpiredTotal.Add(float64(out.Expired))
	outcome := metrics.OutcomeOK
	if out.Failed > 0 {
		outcome = metrics.OutcomeFailed
	}
	metrics.SweepRunsTotal.WithLabelValues(ip.Trigger, outcome).Inc()

	if out.Scanned > 0 {
		uc.l.Infof(ctx, "internal.alert.usecase.sweep: trigger=%s scanned=%d expired=%d skipped=%d failed=%d",
			ip.Trigger, out.Scanned, out.Expired, out.Skipped, out.Failed)
	}
	return out, nil
}
