package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"alert-srv/internal/alert/repository"
	"alert-srv/internal/model"
	"alert-srv/pkg/log"
	"alert-srv/pkg/paginator"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const alertID = "2f1d9c1e-8a57-4b8e-9d3c-5f0a1b2c3d4e"

func newMock(t *testing.T) (*implRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(log.NewNop(), db).(*implRepository), mock
}

func alertRows(status string, acks string, createdAt time.Time) *sqlmock.Rows {
	return sqlmock.NewRows(alertColumns).AddRow(
		alertID, "bed_full", "critical", "ICU Bed Shortage", "no beds", "central",
		[]byte(`{"beds":0,"icuBeds":4,"ventilators":0,"staff":0,"ambulances":0}`),
		[]byte(`[{"action":"open overflow","priority":"immediate","completed":false}]`),
		status, createdAt.Add(24*time.Hour),
		[]byte(acks), "u-admin", nil, createdAt, createdAt,
	)
}

func TestCreate(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	mock.ExpectQuery(`INSERT INTO alerts \(id, type, severity`).
		WithArgs(alertID, "bed_full", "critical", "ICU Bed Shortage", "no beds", "central",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "active", now.Add(24*time.Hour),
			"[]", sqlmock.AnyArg(), sqlmock.AnyArg(), now, now).
		WillReturnRows(alertRows("active", "[]", now))

	got, err := r.Create(context.Background(), repository.CreateOptions{Alert: model.Alert{
		ID:        alertID,
		Type:      model.AlertTypeBedFull,
		Severity:  model.SeverityCritical,
		Title:     "ICU Bed Shortage",
		Message:   "no beds",
		Area:      model.AreaCentral,
		Status:    model.StatusActive,
		ExpiresAt: now.Add(24 * time.Hour),
		CreatedBy: "u-admin",
		CreatedAt: now,
		UpdatedAt: now,
	}})
	require.NoError(t, err)

	assert.Equal(t, alertID, got.ID)
	assert.Equal(t, 4, got.AffectedResources.ICUBeds)
	require.Len(t, got.RecommendedActions, 1)
	assert.Equal(t, model.PriorityImmediate, got.RecommendedActions[0].Priority)
	assert.Empty(t, got.AcknowledgedBy)
	assert.NotNil(t, got.AcknowledgedBy)
	assert.Equal(t, "u-admin", got.CreatedBy)
	assert.Empty(t, got.PredictionID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDetail(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC()

	_, err := r.Detail(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`FROM "?alerts"?`).WithArgs(alertID).
		WillReturnRows(sqlmock.NewRows(alertColumns))
	_, err = r.Detail(context.Background(), alertID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	mock.ExpectQuery(`FROM "?alerts"?`).WithArgs(alertID).
		WillReturnRows(alertRows("resolved", `[{"userId":"7","acknowledgedAt":"2024-01-01T00:00:00Z"}]`, now))
	got, err := r.Detail(context.Background(), alertID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)
	assert.True(t, got.HasAcknowledged("7"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .+ FROM "?alerts"? WHERE .*status = ANY\(\$1\).*expires_at <= \$2.*ORDER BY created_at DESC, id DESC LIMIT 100`).
		WillReturnRows(alertRows("active", "[]", now))

	got, err := r.List(context.Background(), repository.ListOptions{
		Filter: repository.Filter{Statuses: []model.AlertStatus{model.StatusActive}, ExpiresBy: &now},
		Limit:  100,
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ExcludeIDs(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT .+ FROM "?alerts"? WHERE .*expires_at <= \$2.*NOT \(id = ANY\(\$3::uuid\[\]\)\).*LIMIT 1`).
		WillReturnRows(sqlmock.NewRows(alertColumns))

	got, err := r.List(context.Background(), repository.ListOptions{
		Filter: repository.Filter{
			Statuses:   []model.AlertStatus{model.StatusActive},
			ExpiresBy:  &now,
			ExcludeIDs: []string{alertID},
		},
		Limit: 1,
	})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGet(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`(?s)SELECT COUNT\(\*\) FROM "?alerts"? WHERE .*area = ANY\(\$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(16))
	mock.ExpectQuery(`(?s)SELECT .+ FROM "?alerts"? WHERE .*area = ANY\(\$1\).*LIMIT 15 OFFSET 15`).
		WillReturnRows(alertRows("active", "[]", now))

	got, pag, err := r.Get(context.Background(), repository.GetOptions{
		Filter:        repository.Filter{Areas: []model.Area{model.AreaHospitalWide, model.AreaNorth}},
		PaginateQuery: paginator.PaginateQuery{Page: 2},
	})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(16), pag.Total)
	assert.Equal(t, int64(1), pag.Count)
	assert.Equal(t, 2, pag.TotalPages())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Persists(t *testing.T) {
	r, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(alertID).WillReturnRows(alertRows("active", "[]", now))
	mock.ExpectExec(`UPDATE alerts SET status = \$2`).
		WithArgs(alertID, "resolved", sqlmock.AnyArg(), "[]", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	got, err := r.Update(context.Background(), alertID, func(a *model.Alert) (bool, error) {
		a.Status = model.StatusResolved
		a.UpdatedAt = now
		return true, nil
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_Unchanged(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(alertID).WillReturnRows(alertRows("active", "[]", time.Now()))
	mock.ExpectCommit()

	_, err := r.Update(context.Background(), alertID, func(a *model.Alert) (bool, error) { return false, nil })
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_MutateErrorRollsBack(t *testing.T) {
	r, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(alertID).WillReturnRows(alertRows("expired", "[]", time.Now()))
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), alertID, func(a *model.Alert) (bool, error) { return false, boom })
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdate_NotFound(t *testing.T) {
	r, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WithArgs(alertID).WillReturnRows(sqlmock.NewRows(alertColumns))
	mock.ExpectRollback()

	_, err := r.Update(context.Background(), alertID, func(a *model.Alert) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
