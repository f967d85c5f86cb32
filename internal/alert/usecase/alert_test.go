package usecase

import (
	"context"
	"testing"
	"time"

	"alert-srv/internal/alert"
	"alert-srv/internal/model"
	pkgErrors "alert-srv/pkg/errors"
	"alert-srv/pkg/paginator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_Defaults(t *testing.T) {
	f := newFixture()

	out, err := f.uc.Create(context.Background(), adminScope, alert.CreateInput{
		Type:     model.AlertTypeBedFull,
		Severity: model.SeverityCritical,
		Title:    "ICU Bed Shortage",
		Message:  "All ICU beds occupied",
		Area:     model.AreaCentral,
		RecommendedActions: []alert.RecommendedActionInput{
			{Action: "Open overflow ward"},
			{Action: "Divert ambulances", Priority: model.PriorityImmediate, AssignedTo: "9"},
		},
	})
	require.NoError(t, err)
	a := out.Alert

	assert.NotEmpty(t, a.ID)
	assert.Equal(t, model.StatusActive, a.Status)
	assert.Equal(t, f.now, a.CreatedAt)
	assert.Equal(t, 86400000*time.Millisecond, a.ExpiresAt.Sub(a.CreatedAt))
	assert.NotNil(t, a.AcknowledgedBy)
	assert.Empty(t, a.AcknowledgedBy)
	assert.Equal(t, adminScope.UserID, a.CreatedBy)
	require.Len(t, a.RecommendedActions, 2)
	assert.Equal(t, model.PriorityMedium, a.RecommendedActions[0].Priority)
	assert.Equal(t, "Divert ambulances", a.RecommendedActions[1].Action)
	assert.False(t, a.RecommendedActions[1].Completed)

	notified := f.notifier.all()
	require.Len(t, notified, 1)
	assert.Equal(t, a.ID, notified[0].ID)

	select {
	case msg := <-f.discord.sent:
		assert.Contains(t, msg.Title, "ICU Bed Shortage")
	case <-time.After(time.Second):
		t.Fatal("critical alert was not mirrored")
	}
}

func TestCreate_DefaultArea(t *testing.T) {
	f := newFixture()
	a := f.create("")
	assert.Equal(t, model.AreaHospitalWide, a.Area)

	select {
	case <-f.discord.sent:
		t.Fatal("non-critical alert must not be mirrored")
	default:
	}
}

func TestCreate_ExplicitExpiry(t *testing.T) {
	f := newFixture()
	exp := f.now.Add(2 * time.Hour)
	out, err := f.uc.Create(context.Background(), adminScope, alert.CreateInput{
		Type: model.AlertTypeInfo, Severity: model.SeverityLow, Title: "t", Message: "m", ExpiresAt: &exp,
	})
	require.NoError(t, err)
	assert.Equal(t, exp, out.Alert.ExpiresAt)
}

func TestCreate_Validation(t *testing.T) {
	past := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		input  alert.CreateInput
		fields []string
	}{
		{
			name:   "missing required",
			input:  alert.CreateInput{},
			fields: []string{"type", "severity", "title", "message"},
		},
		{
			name: "unknown enums",
			input: alert.CreateInput{
				Type: "flood", Severity: "extreme", Title: "t", Message: "m", Area: "mars",
			},
			fields: []string{"type", "severity", "area"},
		},
		{
			name: "negative counts and bad actions",
			input: alert.CreateInput{
				Type: model.AlertTypeInfo, Severity: model.SeverityLow, Title: "t", Message: " ",
				AffectedResources:  model.AffectedResources{Beds: -1, Ambulances: -2},
				RecommendedActions: []alert.RecommendedActionInput{{Action: "", Priority: "soon"}},
			},
			fields: []string{
				"message", "affectedResources.beds", "affectedResources.ambulances",
				"recommendedActions[0].action", "recommendedActions[0].priority",
			},
		},
		{
			name: "expiry before creation",
			input: alert.CreateInput{
				Type: model.AlertTypeInfo, Severity: model.SeverityLow, Title: "t", Message: "m", ExpiresAt: &past,
			},
			fields: []string{"expiresAt"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Create(context.Background(), adminScope, tt.input)
			require.Error(t, err)
			assert.True(t, pkgErrors.IsValidation(err))

			col, ok := err.(*pkgErrors.ValidationErrorCollector)
			require.True(t, ok)
			var got []string
			for _, e := range col.Errors() {
				got = append(got, e.Field)
			}
			assert.Equal(t, tt.fields, got)
			assert.Empty(t, f.notifier.all())
		})
	}
}

func TestCreate_RequiresAdmin(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Create(context.Background(), nurseNorth, alert.CreateInput{
		Type: model.AlertTypeInfo, Severity: model.SeverityLow, Title: "t", Message: "m",
	})
	assert.ErrorIs(t, err, alert.ErrForbidden)
}

func TestResolveAndExpire(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaNorth)

	out, err := f.uc.Resolve(context.Background(), adminScope, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, out.Alert.Status)

	_, err = f.uc.Resolve(context.Background(), adminScope, a.ID)
	assert.ErrorIs(t, err, alert.ErrInvalidTransition)
	_, err = f.uc.Expire(context.Background(), a.ID)
	assert.ErrorIs(t, err, alert.ErrInvalidTransition)

	got, err := f.uc.Detail(context.Background(), adminScope, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, got.Alert.Status)

	b := f.create(model.AreaNorth)
	out, err = f.uc.Expire(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusExpired, out.Alert.Status)
	_, err = f.uc.Resolve(context.Background(), adminScope, b.ID)
	assert.ErrorIs(t, err, alert.ErrInvalidTransition)

	_, err = f.uc.Resolve(context.Background(), adminScope, "missing")
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)
	_, err = f.uc.Expire(context.Background(), "missing")
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)

	_, err = f.uc.Resolve(context.Background(), nurseNorth, b.ID)
	assert.ErrorIs(t, err, alert.ErrForbidden)
}

func TestDetail_AreaVisibility(t *testing.T) {
	f := newFixture()
	north := f.create(model.AreaNorth)
	wide := f.create(model.AreaHospitalWide)

	_, err := f.uc.Detail(context.Background(), nurseNorth, north.ID)
	assert.NoError(t, err)
	_, err = f.uc.Detail(context.Background(), doctorEast, north.ID)
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)
	_, err = f.uc.Detail(context.Background(), doctorEast, wide.ID)
	assert.NoError(t, err)
}

func TestList_Authorization(t *testing.T) {
	f := newFixture()
	ids := map[model.Area]string{}
	for i, area := range []model.Area{model.AreaNorth, model.AreaSouth, model.AreaHospitalWide, model.AreaEast} {
		f.now = f.now.Add(time.Duration(i) * time.Minute)
		ids[area] = f.create(area).ID
	}
	resolved := f.create(model.AreaNorth)
	_, err := f.uc.Resolve(context.Background(), adminScope, resolved.ID)
	require.NoError(t, err)

	areasOf := func(alerts []model.Alert) []model.Area {
		out := make([]model.Area, len(alerts))
		for i, a := range alerts {
			out[i] = a.Area
		}
		return out
	}

	got, err := f.uc.List(context.Background(), nurseNorth, alert.ListInput{})
	require.NoError(t, err)
	assert.Equal(t, []model.Area{model.AreaHospitalWide, model.AreaNorth}, areasOf(got))

	got, err = f.uc.List(context.Background(), nurseNorth, alert.ListInput{Filter: alert.Filter{Area: model.AreaSouth}})
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = f.uc.List(context.Background(), adminScope, alert.ListInput{})
	require.NoError(t, err)
	assert.Len(t, got, 4)

	got, err = f.uc.List(context.Background(), adminScope, alert.ListInput{Filter: alert.Filter{Status: model.StatusResolved}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, resolved.ID, got[0].ID)

	page, err := f.uc.Get(context.Background(), adminScope, alert.GetInput{PaginateQuery: paginator.PaginateQuery{Page: 1, Limit: 3}})
	require.NoError(t, err)
	assert.Len(t, page.Alerts, 3)
	assert.Equal(t, int64(4), page.Paginator.Total)
}

func TestCompleteAction(t *testing.T) {
	f := newFixture()
	out, err := f.uc.Create(context.Background(), adminScope, alert.CreateInput{
		Type: model.AlertTypeStaffShortage, Severity: model.SeverityMedium, Title: "t", Message: "m", Area: model.AreaNorth,
		RecommendedActions: []alert.RecommendedActionInput{
			{Action: "call in reserve staff"},
			{Action: "reassign paramedic", AssignedTo: "9"},
		},
	})
	require.NoError(t, err)
	id := out.Alert.ID

	done, err := f.uc.CompleteAction(context.Background(), nurseNorth, alert.CompleteActionInput{ID: id, Index: 0})
	require.NoError(t, err)
	assert.True(t, done.Alert.RecommendedActions[0].Completed)
	require.NotNil(t, done.Alert.RecommendedActions[0].CompletedAt)
	assert.Equal(t, f.now, *done.Alert.RecommendedActions[0].CompletedAt)
	assert.Equal(t, "call in reserve staff", done.Alert.RecommendedActions[0].Action)

	f.now = f.now.Add(time.Hour)
	again, err := f.uc.CompleteAction(context.Background(), nurseNorth, alert.CompleteActionInput{ID: id, Index: 0})
	require.NoError(t, err)
	assert.Equal(t, *done.Alert.RecommendedActions[0].CompletedAt, *again.Alert.RecommendedActions[0].CompletedAt)

	_, err = f.uc.CompleteAction(context.Background(), nurseNorth, alert.CompleteActionInput{ID: id, Index: 1})
	assert.ErrorIs(t, err, alert.ErrForbidden)
	_, err = f.uc.CompleteAction(context.Background(), nurseNorth, alert.CompleteActionInput{ID: id, Index: 5})
	assert.ErrorIs(t, err, alert.ErrActionNotFound)
	_, err = f.uc.CompleteAction(context.Background(), doctorEast, alert.CompleteActionInput{ID: id, Index: 1})
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)

	_, err = f.uc.Resolve(context.Background(), adminScope, id)
	require.NoError(t, err)
	_, err = f.uc.CompleteAction(context.Background(), adminScope, alert.CompleteActionInput{ID: id, Index: 1})
	assert.ErrorIs(t, err, alert.ErrInvalidTransition)
}

func TestListDue(t *testing.T) {
	f := newFixture()
	due := f.create(model.AreaNorth)
	f.now = f.now.Add(time.Hour)
	f.create(model.AreaNorth)

	got, err := f.uc.ListDue(context.Background(), due.ExpiresAt, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, due.ID, got[0].ID)
}
