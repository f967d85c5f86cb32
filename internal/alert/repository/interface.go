package repository

import (
	"context"

	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
)

// MutateFunc edits a in place and reports whether anything changed.
// Returning an error aborts the update and leaves the record untouched.
type MutateFunc func(a *model.Alert) (changed bool, err error)

//go:generate mockery --name Repository
type Repository interface {
	Create(ctx context.Context, opts CreateOptions) (model.Alert, error)
	Detail(ctx context.Context, id string) (model.Alert, error)
	List(ctx context.Context, opts ListOptions) ([]model.Alert, error)
	Get(ctx context.Context, opts GetOptions) ([]model.Alert, paginator.Paginator, error)

	// Update runs fn against the current record while holding that record exclusively,
	// then persists it if fn reported a change. Updates of different ids do not wait on each other.
	Update(ctx context.Context, id string, fn MutateFunc) (model.Alert, error)
}
