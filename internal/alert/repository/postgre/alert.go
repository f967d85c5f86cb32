package postgres

import (
	"context"
	"database/sql"

	"alert-srv/internal/alert/repository"
	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
	postgresPkg "alert-srv/pkg/postgre"

	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/friendsofgo/errors"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Alert, error) {
	args, err := insertArgs(opts.Alert)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.insertArgs: %v", err)
		return model.Alert{}, err
	}

	var row alertRow
	if err := queries.Raw(insertQuery, args...).Bind(ctx, r.db, &row); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Create.Insert: %v", err)
		return model.Alert{}, errors.Wrap(err, "insert alert")
	}

	return row.toModel()
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Alert, error) {
	if !postgresPkg.IsValidID(id) {
		return model.Alert{}, repository.ErrNotFound
	}

	var row alertRow
	if err := r.buildDetailQuery(id).Bind(ctx, r.db, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Detail.Bind: %v", err)
		return model.Alert{}, errors.Wrap(err, "select alert")
	}

	return row.toModel()
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Alert, error) {
	var rows []*alertRow
	if err := r.buildListQuery(opts).Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.List.Bind: %v", err)
		return nil, errors.Wrap(err, "list alerts")
	}

	return toModels(rows)
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Alert, paginator.Paginator, error) {
	pageQuery, countQuery := r.buildGetQuery(opts)

	var total int64
	if err := countQuery.QueryRowContext(ctx, r.db).Scan(&total); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Get.Count: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "count alerts")
	}

	var rows []*alertRow
	if err := pageQuery.Bind(ctx, r.db, &rows); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Get.Bind: %v", err)
		return nil, paginator.Paginator{}, errors.Wrap(err, "page alerts")
	}

	alerts, err := toModels(rows)
	if err != nil {
		return nil, paginator.Paginator{}, err
	}

	pageReq := opts.PaginateQuery
	pageReq.Adjust()
	return alerts, paginator.Paginator{
		Total:       total,
		Count:       int64(len(alerts)),
		PerPage:     pageReq.Limit,
		CurrentPage: pageReq.Page,
	}, nil
}

// Update locks the row with SELECT ... FOR UPDATE for the duration of fn.
func (r *implRepository) Update(ctx context.Context, id string, fn repository.MutateFunc) (model.Alert, error) {
	if !postgresPkg.IsValidID(id) {
		return model.Alert{}, repository.ErrNotFound
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Update.BeginTx: %v", err)
		return model.Alert{}, errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback() }()

	var row alertRow
	if err := queries.Raw(lockQuery, id).Bind(ctx, tx, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Alert{}, repository.ErrNotFound
		}
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Update.Lock: %v", err)
		return model.Alert{}, errors.Wrap(err, "lock alert")
	}

	a, err := row.toModel()
	if err != nil {
		return model.Alert{}, err
	}

	changed, err := fn(&a)
	if err != nil {
		return model.Alert{}, err
	}
	if !changed {
		return a, tx.Commit()
	}

	actions, err := jsonArg(a.RecommendedActions)
	if err != nil {
		return model.Alert{}, err
	}
	acks, err := jsonArg(a.AcknowledgedBy)
	if err != nil {
		return model.Alert{}, err
	}
	if _, err := queries.Raw(updateQuery, a.ID, string(a.Status), actions, acks, a.UpdatedAt).ExecContext(ctx, tx); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Update.Exec: %v", err)
		return model.Alert{}, errors.Wrap(err, "update alert")
	}

	if err := tx.Commit(); err != nil {
		r.l.Errorf(ctx, "internal.alert.repository.postgres.Update.Commit: %v", err)
		return model.Alert{}, errors.Wrap(err, "commit")
	}
	return a, nil
}
