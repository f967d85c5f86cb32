package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/alert/repository"
	"alert-srv/internal/metrics"
	"alert-srv/internal/model"
)

func (uc *implUseCase) Create(ctx context.Context, sc model.Scope, ip alert.CreateInput) (alert.AlertOutput, error) {
	if !sc.IsAdmin() {
		return alert.AlertOutput{}, alert.ErrForbidden
	}

	now := uc.clock()
	if err := validateCreateInput(ip, now); err != nil {
		return alert.AlertOutput{}, err
	}

	a := model.Alert{
		ID:                 uc.newID(),
		Type:               ip.Type,
		Severity:           ip.Severity,
		Title:              strings.TrimSpace(ip.Title),
		Message:            strings.TrimSpace(ip.Message),
		Area:               ip.Area,
		AffectedResources:  ip.AffectedResources,
		RecommendedActions: make([]model.RecommendedAction, 0, len(ip.RecommendedActions)),
		Status:             model.StatusActive,
		ExpiresAt:          now.Add(uc.ttl),
		AcknowledgedBy:     []model.Acknowledgment{},
		CreatedBy:          sc.UserID,
		PredictionID:       ip.PredictionID,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if a.Area == "" {
		a.Area = model.AreaHospitalWide
	}
	if ip.ExpiresAt != nil {
		a.ExpiresAt = *ip.ExpiresAt
	}
	for _, ra := range ip.RecommendedActions {
		priority := ra.Priority
		if priority == "" {
			priority = model.PriorityMedium
		}
		a.RecommendedActions = append(a.RecommendedActions, model.RecommendedAction{
			Action:     strings.TrimSpace(ra.Action),
			Priority:   priority,
			AssignedTo: ra.AssignedTo,
		})
	}

	created, err := uc.repo.Create(ctx, repository.CreateOptions{Alert: a})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Create.repo.Create: %v", err)
		return alert.AlertOutput{}, err
	}
	metrics.AlertsCreatedTotal.WithLabelValues(string(created.Severity), string(created.Area)).Inc()

	if uc.notifier != nil {
		uc.notifier.AlertCreated(ctx, created.Clone())
	}
	if created.Severity == model.SeverityCritical {
		uc.dispatchCritical(ctx, created)
	}

	return alert.AlertOutput{Alert: created}, nil
}

func (uc *implUseCase) Detail(ctx context.Context, sc model.Scope, id string) (alert.AlertOutput, error) {
	a, err := uc.repo.Detail(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return alert.AlertOutput{}, alert.ErrAlertNotFound
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.Detail: %v", err)
		return alert.AlertOutput{}, err
	}
	if !sc.CanSee(a.Area) {
		return alert.AlertOutput{}, alert.ErrAlertNotFound
	}

	return alert.AlertOutput{Alert: a}, nil
}

func (uc *implUseCase) List(ctx context.Context, sc model.Scope, ip alert.ListInput) ([]model.Alert, error) {
	alerts, err := uc.repo.List(ctx, repository.ListOptions{Filter: scopedFilter(sc, ip.Filter)})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.List: %v", err)
		return nil, err
	}
	return alerts, nil
}

func (uc *implUseCase) Get(ctx context.Context, sc model.Scope, ip alert.GetInput) (alert.GetAlertOutput, error) {
	alerts, pag, err := uc.repo.Get(ctx, repository.GetOptions{
		Filter:        scopedFilter(sc, ip.Filter),
		PaginateQuery: ip.PaginateQuery,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.Get: %v", err)
		return alert.GetAlertOutput{}, err
	}
	return alert.GetAlertOutput{Alerts: alerts, Paginator: pag}, nil
}

func (uc *implUseCase) Resolve(ctx context.Context, sc model.Scope, id string) (alert.AlertOutput, error) {
	if !sc.IsAdmin() {
		return alert.AlertOutput{}, alert.ErrForbidden
	}
	return uc.transition(ctx, id, model.StatusResolved)
}

func (uc *implUseCase) Expire(ctx context.Context, id string) (alert.AlertOutput, error) {
	return uc.transition(ctx, id, model.StatusExpired)
}

// transition re-reads the status under the record lock, so a record that turned
// terminal since the caller last looked is reported, not overwritten.
func (uc *implUseCase) transition(ctx context.Context, id string, to model.AlertStatus) (alert.AlertOutput, error) {
	a, err := uc.repo.Update(ctx, id, func(a *model.Alert) (bool, error) {
		if !a.Status.CanTransitionTo(to) {
			return false, alert.ErrInvalidTransition
		}
		a.Status = to
		a.UpdatedAt = uc.clock()
		return true, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			metrics.AlertTransitionsTotal.WithLabelValues(string(to), metrics.OutcomeFailed).Inc()
			return alert.AlertOutput{}, alert.ErrAlertNotFound
		case errors.Is(err, alert.ErrInvalidTransition):
			metrics.AlertTransitionsTotal.WithLabelValues(string(to), metrics.OutcomeSkipped).Inc()
			return alert.AlertOutput{}, err
		}
		uc.l.Errorf(ctx, "internal.alert.usecase.transition(%s -> %s): %v", id, to, err)
		metrics.AlertTransitionsTotal.WithLabelValues(string(to), metrics.OutcomeFailed).Inc()
		return alert.AlertOutput{}, err
	}

	metrics.AlertTransitionsTotal.WithLabelValues(string(to), metrics.OutcomeOK).Inc()
	return alert.AlertOutput{Alert: a}, nil
}

func (uc *implUseCase) CompleteAction(ctx context.Context, sc model.Scope, ip alert.CompleteActionInput) (alert.AlertOutput, error) {
	if _, err := uc.Detail(ctx, sc, ip.ID); err != nil {
		return alert.AlertOutput{}, err
	}

	a, err := uc.repo.Update(ctx, ip.ID, func(a *model.Alert) (bool, error) {
		if a.Status.IsTerminal() {
			return false, alert.ErrInvalidTransition
		}
		if ip.Index < 0 || ip.Index >= len(a.RecommendedActions) {
			return false, alert.ErrActionNotFound
		}
		ra := &a.RecommendedActions[ip.Index]
		if ra.AssignedTo != "" && ra.AssignedTo != sc.UserID && !sc.IsAdmin() {
			return false, alert.ErrForbidden
		}
		if ra.Completed {
			return false, nil
		}
		now := uc.clock()
		ra.Completed = true
		ra.CompletedAt = &now
		a.UpdatedAt = now
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return alert.AlertOutput{}, alert.ErrAlertNotFound
		}
		if !errors.Is(err, alert.ErrInvalidTransition) && !errors.Is(err, alert.ErrActionNotFound) && !errors.Is(err, alert.ErrForbidden) {
			uc.l.Errorf(ctx, "internal.alert.usecase.CompleteAction: %v", err)
		}
		return alert.AlertOutput{}, err
	}

	return alert.AlertOutput{Alert: a}, nil
}

func (uc *implUseCase) ListDue(ctx context.Context, now time.Time, limit int) ([]model.Alert, error) {
	return uc.listDue(ctx, now, limit, nil)
}

// listDue is ListDue skipping the ids in exclude.
func (uc *implUseCase) listDue(ctx context.Context, now time.Time, limit int, exclude []string) ([]model.Alert, error) {
	alerts, err := uc.repo.List(ctx, repository.ListOptions{
		Filter: repository.Filter{
			Statuses:   []model.AlertStatus{model.StatusActive},
			ExpiresBy:  &now,
			ExcludeIDs: exclude,
		},
		Limit: limit,
	})
	if err != nil {
		uc.l.Errorf(ctx, "internal.alert.usecase.ListDue: %v", err)
		return nil, err
	}
	return alerts, nil
}
