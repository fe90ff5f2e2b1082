package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/cppla/missionboard/models"
	"github.com/cppla/missionboard/testutil"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func countLogs(t *testing.T, svc *MissionService, userID uint) int {
	t.Helper()
	logs, err := svc.History(context.Background(), userID)
	require.NoError(t, err)
	return len(logs)
}

func TestToggleRoundTrip(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	user := testutil.CreateUser(t, db, "alice", models.DepartmentHope)
	mission := testutil.CreateMission(t, db, "meal", 3, models.CategoryOutreach)
	svc := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)))
	ctx := context.Background()

	res, err := svc.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 3, res.Points)
	assert.Equal(t, 3, res.User.TotalPoints)

	list, err := svc.ListWithStatus(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Completed)

	res, err = svc.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)
	assert.False(t, res.Completed)
	assert.Equal(t, -3, res.Points)
	assert.Equal(t, 0, res.User.TotalPoints)
	assert.Equal(t, 0, countLogs(t, svc, user.ID))

	list, err = svc.ListWithStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, list[0].Completed)
}

func TestToggleUnknownMissionLeavesPoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "bob", models.DepartmentLove)
	svc := NewMissionService(db)

	_, err := svc.Toggle(context.Background(), user.ID, 9999)
	assert.ErrorIs(t, err, ErrMissionNotFound)
	assert.Equal(t, 0, testutil.ReloadUser(t, db, user.ID).TotalPoints)
	assert.Equal(t, 0, countLogs(t, svc, user.ID))
}

func TestToggleUnknownUser(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	mission := testutil.CreateMission(t, db, "read", 1, models.CategoryWord)

	_, err := NewMissionService(db).Toggle(context.Background(), 42, mission.ID)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCompletionIsPerUTCDay(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	user := testutil.CreateUser(t, db, "carol", models.DepartmentFaith)
	mission := testutil.CreateMission(t, db, "pray", 2, models.CategoryPrayer)
	ctx := context.Background()

	yesterday := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 1, 23, 59, 0, 0, time.UTC)))
	today := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 2, 0, 1, 0, 0, time.UTC)))

	_, err := yesterday.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)

	list, err := today.ListWithStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, list[0].Completed)
	assert.Equal(t, 1, countLogs(t, today, user.ID))

	res, err := today.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)
	assert.True(t, res.Completed)
	assert.Equal(t, 4, res.User.TotalPoints)

	logs, err := today.History(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.True(t, logs[0].CompletedAt.After(logs[1].CompletedAt))
	assert.Equal(t, "pray", logs[0].Mission.Title)
}

func TestConcurrentTogglesKeepOneLogPerDay(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	user := testutil.CreateUser(t, db, "dave", models.DepartmentHope)
	mission := testutil.CreateMission(t, db, "gift", 5, models.CategoryFellowship)
	svc := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 3, 12, 0, 0, 0, time.UTC)))

	const n = 7
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Toggle(context.Background(), user.ID, mission.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	logs := countLogs(t, svc, user.ID)
	assert.Equal(t, 1, logs, "an odd number of toggles ends completed")
	assert.Equal(t, 5*logs, testutil.ReloadUser(t, db, user.ID).TotalPoints)
}

func TestListWithStatusOrdersCatalog(t *testing.T) {
	db := testutil.SetupTestDB(t)
	user := testutil.CreateUser(t, db, "erin", models.DepartmentLove)

	list, err := NewMissionService(db).ListWithStatus(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, list, 24)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
		assert.False(t, list[i].Completed)
	}
}

// staleLogRead makes the next mission_logs lookup report no row, as if it ran
// before a competing toggle committed today's log.
func staleLogRead(t *testing.T, db *gorm.DB) *atomic.Bool {
	t.Helper()
	armed := &atomic.Bool{}
	err := db.Callback().Query().After("gorm:query").Register("test:stale_log_read", func(tx *gorm.DB) {
		if tx.Statement.Table == "mission_logs" && tx.Error == nil && armed.CompareAndSwap(true, false) {
			_ = tx.AddError(gorm.ErrRecordNotFound)
		}
	})
	require.NoError(t, err)
	return armed
}

func TestToggleRetriesAfterLosingInsertRace(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	user := testutil.CreateUser(t, db, "frank", models.DepartmentFaith)
	mission := testutil.CreateMission(t, db, "promise", 3, models.CategoryOutreach)
	svc := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 4, 6, 0, 0, 0, time.UTC)))
	ctx := context.Background()
	armed := staleLogRead(t, db)

	// the winning toggle commits today's log
	res, err := svc.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)
	require.True(t, res.Completed)

	// the loser misses that log, its insert hits the unique index, and the retry un-marks
	armed.Store(true)
	res, err = svc.Toggle(ctx, user.ID, mission.ID)
	require.NoError(t, err)
	assert.False(t, armed.Load(), "stale read was not exercised")
	assert.False(t, res.Completed)
	assert.Equal(t, -3, res.Points)
	assert.Equal(t, 0, res.User.TotalPoints)
	assert.Equal(t, 0, countLogs(t, svc, user.ID))
	assert.Equal(t, 0, testutil.ReloadUser(t, db, user.ID).TotalPoints)
}

func TestUniqueIndexRejectsSecondLogForDay(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	user := testutil.CreateUser(t, db, "gina", models.DepartmentHope)
	mission := testutil.CreateMission(t, db, "read", 1, models.CategoryWord)
	now := time.Date(2024, 7, 4, 6, 0, 0, 0, time.UTC)

	first := models.MissionLog{UserID: user.ID, MissionID: mission.ID, CompletedDate: models.DayKey(now), CompletedAt: now}
	require.NoError(t, db.Omit("Mission").Create(&first).Error)

	second := models.MissionLog{UserID: user.ID, MissionID: mission.ID, CompletedDate: models.DayKey(now), CompletedAt: now.Add(time.Hour)}
	err := db.Omit("Mission").Create(&second).Error
	require.Error(t, err)
	assert.True(t, isDuplicateKey(err))
}

func TestIsDuplicateKey(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"translated", gorm.ErrDuplicatedKey, true},
		{"wrapped translated", fmt.Errorf("create log: %w", gorm.ErrDuplicatedKey), true},
		{"mysql message", errors.New("Error 1062 (23000): Duplicate entry '1-2-2024-07-04' for key 'idx_log_user_mission_day'"), true},
		{"sqlite message", errors.New("constraint failed: UNIQUE constraint failed: mission_logs.user_id, mission_logs.mission_id, mission_logs.completed_date (2067)"), true},
		{"not found", gorm.ErrRecordNotFound, false},
		{"other", errors.New("database is locked"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isDuplicateKey(tc.err))
		})
	}
}
