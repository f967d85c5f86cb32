package usecase

import (
	"context"
	"errors"

	"alert-srv/internal/alert"
	"alert-srv/internal/alert/repository"
	"alert-srv/internal/metrics"
	"alert-srv/internal/model"
)

// Acknowledge records that sc has seen the alert. A repeat call by the same user
// is a no-op returning the current record. Terminal alerts still accept acknowledgments.
// Any caller may acknowledge any existing alert; the area predicate applies to reads only.
func (uc *implUseCase) Acknowledge(ctx context.Context, sc model.Scope, id string) (alert.AlertOutput, error) {
	added := false
	a, err := uc.repo.Update(ctx, id, func(a *model.Alert) (bool, error) {
		if a.HasAcknowledged(sc.UserID) {
			return false, nil
		}
		now := uc.clock()
		a.AcknowledgedBy = append(a.AcknowledgedBy, model.Acknowledgment{
			UserID:         sc.UserID,
			AcknowledgedAt: now,
		})
		a.UpdatedAt = now
		added = true
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return alert.AlertOutput{}, alert.ErrAlertNotFound
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.Acknowledge: %v", err)
		return alert.AlertOutput{}, err
	}

	if added {
		metrics.AcknowledgmentsTotal.WithLabelValues("added").Inc()
	} else {
		metrics.AcknowledgmentsTotal.WithLabelValues("duplicate").Inc()
	}
	return alert.AlertOutput{Alert: a}, nil
}
