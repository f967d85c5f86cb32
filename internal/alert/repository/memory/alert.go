package memory

import (
	"context"
	"fmt"
	"sort"

	"alert-srv/internal/alert/repository"
	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
)

func (r *implRepository) Create(ctx context.Context, opts repository.CreateOptions) (model.Alert, error) {
	a := opts.Alert.Clone()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.alerts[a.ID]; exists {
		err := fmt.Errorf("alert %s already exists", a.ID)
		r.l.Errorf(ctx, "internal.alert.repository.memory.Create: %v", err)
		return model.Alert{}, err
	}
	r.alerts[a.ID] = &entry{alert: a}

	return a.Clone(), nil
}

func (r *implRepository) Detail(ctx context.Context, id string) (model.Alert, error) {
	e, ok := r.lookup(id)
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.alert.Clone(), nil
}

func (r *implRepository) List(ctx context.Context, opts repository.ListOptions) ([]model.Alert, error) {
	res := r.matching(opts.Filter)
	if opts.Limit > 0 && len(res) > opts.Limit {
		res = res[:opts.Limit]
	}
	return res, nil
}

func (r *implRepository) Get(ctx context.Context, opts repository.GetOptions) ([]model.Alert, paginator.Paginator, error) {
	page, pag := paginator.PaginateSlice(r.matching(opts.Filter), opts.PaginateQuery)
	return page, pag, nil
}

func (r *implRepository) Update(ctx context.Context, id string, fn repository.MutateFunc) (model.Alert, error) {
	e, ok := r.lookup(id)
	if !ok {
		return model.Alert{}, repository.ErrNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	next := e.alert.Clone()
	changed, err := fn(&next)
	if err != nil {
		return model.Alert{}, err
	}
	if changed {
		e.alert = next
	}
	return e.alert.Clone(), nil
}

func (r *implRepository) lookup(id string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.alerts[id]
	return e, ok
}

// matching snapshots every record matching f, newest first.
func (r *implRepository) matching(f repository.Filter) []model.Alert {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.alerts))
	for _, e := range r.alerts {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	res := make([]model.Alert, 0)
	for _, e := range entries {
		e.mu.Lock()
		a := e.alert.Clone()
		e.mu.Unlock()
		if f.Match(a) {
			res = append(res, a)
		}
	}

	sort.Slice(res, func(i, j int) bool {
		if res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].ID > res[j].ID
		}
		return res[i].CreatedAt.After(res[j].CreatedAt)
	})
	return res
}
