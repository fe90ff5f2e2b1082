package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/testutil"
)

func TestReconcileRepairsDrift(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	good := testutil.CreateUser(t, db, "good", models.DepartmentHope)
	bad := testutil.CreateUser(t, db, "bad", models.DepartmentLove)
	mission := testutil.CreateMission(t, db, "visit", 2, models.CategoryFellowship)
	ctx := context.Background()

	missions := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)))
	for _, u := range []uint{good.ID, bad.ID} {
		_, err := missions.Toggle(ctx, u, mission.ID)
		require.NoError(t, err)
	}
	setPoints(t, db, bad.ID, 11)

	drifts, err := NewPointsReconciler(db).Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Drift{{UserID: bad.ID, Stored: 11, Actual: 2}}, drifts)
	assert.Equal(t, 2, testutil.ReloadUser(t, db, bad.ID).TotalPoints)

	drifts, err = NewPointsReconciler(db).Reconcile(ctx)
	require.NoError(t, err)
	assert.Empty(t, drifts)
}
