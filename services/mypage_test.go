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

func TestMyPage(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	me := testutil.CreateUser(t, db, "me", models.DepartmentHope)
	other := testutil.CreateUser(t, db, "other", models.DepartmentLove)
	word := testutil.CreateMission(t, db, "read", 1, models.CategoryWord)
	gift := testutil.CreateMission(t, db, "gift", 3, models.CategoryOutreach)
	ctx := context.Background()

	day1 := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)))
	day2 := NewMissionService(db).WithClock(fixedClock(time.Date(2024, 7, 2, 10, 0, 0, 0, time.UTC)))
	_, err := day1.Toggle(ctx, me.ID, word.ID)
	require.NoError(t, err)
	_, err = day2.Toggle(ctx, me.ID, word.ID)
	require.NoError(t, err)
	_, err = day2.Toggle(ctx, other.ID, gift.ID)
	require.NoError(t, err)

	page, err := NewMyPageService(db).Get(ctx, me.ID)
	require.NoError(t, err)
	assert.Equal(t, "me", page.User.Nickname)
	assert.Equal(t, 2, page.User.TotalPoints)
	assert.Equal(t, 2, page.TotalCount)
	require.Len(t, page.MissionLogs, 2)
	assert.Equal(t, "2024-07-02", page.MissionLogs[0].Date)
	assert.Equal(t, "2024-07-01", page.MissionLogs[1].Date)

	assert.Equal(t, 2, page.Ranks[RankTotalKey])
	assert.Equal(t, 1, page.Ranks[string(models.CategoryWord)])
	assert.Equal(t, 2, page.Ranks[string(models.CategoryOutreach)])
	assert.Len(t, page.Ranks, 1+len(models.Categories()))
}

func TestMyPageUnknownUser(t *testing.T) {
	db := testutil.OpenEmptyDB(t)
	_, err := NewMyPageService(db).Get(context.Background(), 7)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGroupByDay(t *testing.T) {
	at := func(day, hour int) time.Time { return time.Date(2024, 7, day, hour, 0, 0, 0, time.UTC) }
	logs := []models.MissionLog{
		{ID: 1, CompletedAt: at(1, 8)},
		{ID: 2, CompletedAt: at(3, 9)},
		{ID: 3, CompletedAt: at(1, 20)},
		{ID: 4, CompletedAt: at(3, 7)},
	}

	groups := GroupByDay(logs)
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-07-03", groups[0].Date)
	assert.Equal(t, uint(2), groups[0].Logs[0].ID)
	assert.Equal(t, uint(4), groups[0].Logs[1].ID)
	assert.Equal(t, "2024-07-01", groups[1].Date)
	assert.Equal(t, uint(3), groups[1].Logs[0].ID)

	assert.Empty(t, GroupByDay(nil))
}

func TestGroupByDayPrefersStoredDay(t *testing.T) {
	logs := []models.MissionLog{
		{ID: 1, CompletedDate: "2024-07-02", CompletedAt: time.Date(2024, 7, 1, 23, 0, 0, 0, time.UTC)},
		{ID: 2, CompletedAt: time.Date(2024, 7, 1, 22, 0, 0, 0, time.UTC)},
	}

	groups := GroupByDay(logs)
	require.Len(t, groups, 2)
	assert.Equal(t, "2024-07-02", groups[0].Date)
	assert.Equal(t, uint(1), groups[0].Logs[0].ID)
	assert.Equal(t, "2024-07-01", groups[1].Date)
	assert.Equal(t, uint(2), groups[1].Logs[0].ID)
}

func TestPositionFallsBackToUserCountPlusOne(t *testing.T) {
	ranking := []RankEntry{{ID: 4}, {ID: 2}}
	assert.Equal(t, 2, position(ranking, 2, 2))
	assert.Equal(t, 3, position(ranking, 9, 2))
}
