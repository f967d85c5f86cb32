package alert

import (
	"context"
	"time"

	"alert-srv/internal/model"
)

//go:generate mockery --name UseCase
type UseCase interface {
	Create(ctx context.Context, sc model.Scope, ip CreateInput) (AlertOutput, error)
	Detail(ctx context.Context, sc model.Scope, id string) (AlertOutput, error)
	Get(ctx context.Context, sc model.Scope, ip GetInput) (GetAlertOutput, error)
	List(ctx context.Context, sc model.Scope, ip ListInput) ([]model.Alert, error)
	Resolve(ctx context.Context, sc model.Scope, id string) (AlertOutput, error)
	Acknowledge(ctx context.Context, sc model.Scope, id string) (AlertOutput, error)
	CompleteAction(ctx context.Context, sc model.Scope, ip CompleteActionInput) (AlertOutput, error)

	// Expire, ListDue and Sweep serve the expiration sweeper; they carry no caller scope.
	Expire(ctx context.Context, id string) (AlertOutput, error)
	ListDue(ctx context.Context, now time.Time, limit int) ([]model.Alert, error)
	Sweep(ctx context.Context, ip SweepInput) (SweepOutput, error)
}

// Notifier is told about alerts after they are persisted. It must not block.
type Notifier interface {
	AlertCreated(ctx context.Context, a model.Alert)
}
