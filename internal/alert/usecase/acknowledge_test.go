package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"alert-srv/internal/alert"
	"alert-srv/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledge_Idempotent(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaNorth)

	first, err := f.uc.Acknowledge(context.Background(), nurseNorth, a.ID)
	require.NoError(t, err)
	require.Len(t, first.Alert.AcknowledgedBy, 1)
	assert.Equal(t, nurseNorth.UserID, first.Alert.AcknowledgedBy[0].UserID)
	assert.Equal(t, f.now, first.Alert.AcknowledgedBy[0].AcknowledgedAt)
	assert.Equal(t, model.StatusActive, first.Alert.Status)

	second, err := f.uc.Acknowledge(context.Background(), nurseNorth, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Alert.AcknowledgedBy, second.Alert.AcknowledgedBy)
}

func TestAcknowledge_SameUserRace(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaHospitalWide)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.uc.Acknowledge(context.Background(), nurseNorth, a.ID)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := f.uc.Detail(context.Background(), adminScope, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Alert.AcknowledgedBy, 1)
}

func TestAcknowledge_TwoUsersConcurrently(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaHospitalWide)

	var wg sync.WaitGroup
	for _, sc := range []model.Scope{nurseNorth, doctorEast} {
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(sc model.Scope) {
				defer wg.Done()
				_, err := f.uc.Acknowledge(context.Background(), sc, a.ID)
				assert.NoError(t, err)
			}(sc)
		}
	}
	wg.Wait()

	got, err := f.uc.Detail(context.Background(), adminScope, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Alert.AcknowledgedBy, 2)
	users := []string{got.Alert.AcknowledgedBy[0].UserID, got.Alert.AcknowledgedBy[1].UserID}
	assert.ElementsMatch(t, []string{nurseNorth.UserID, doctorEast.UserID}, users)
}

func TestAcknowledge_ManyUsers(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaHospitalWide)

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sc := model.Scope{UserID: fmt.Sprintf("u%d", i%10), Role: model.RoleStaff}
			_, err := f.uc.Acknowledge(context.Background(), sc, a.ID)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := f.uc.Detail(context.Background(), adminScope, a.ID)
	require.NoError(t, err)
	assert.Len(t, got.Alert.AcknowledgedBy, 10)
}

func TestAcknowledge_TerminalAndMissing(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaNorth)
	_, err := f.uc.Resolve(context.Background(), adminScope, a.ID)
	require.NoError(t, err)

	out, err := f.uc.Acknowledge(context.Background(), nurseNorth, a.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusResolved, out.Alert.Status)
	assert.True(t, out.Alert.HasAcknowledged(nurseNorth.UserID))

	_, err = f.uc.Acknowledge(context.Background(), nurseNorth, "missing")
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)

}

func TestAcknowledge_OutsideCallerArea(t *testing.T) {
	f := newFixture()
	a := f.create(model.AreaNorth)

	out, err := f.uc.Acknowledge(context.Background(), doctorEast, a.ID)
	require.NoError(t, err)
	assert.True(t, out.Alert.HasAcknowledged(doctorEast.UserID))
	assert.Equal(t, model.StatusActive, out.Alert.Status)

	_, err = f.uc.Detail(context.Background(), doctorEast, a.ID)
	assert.ErrorIs(t, err, alert.ErrAlertNotFound)
}
