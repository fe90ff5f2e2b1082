package services

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/cppla/missionboard/models"
)

// RankTotalKey is the ranks entry for the overall ranking; the other entries
// are keyed by category.
const RankTotalKey = "total"

// LogGroup holds one UTC day of a user's logs, newest first.
type LogGroup struct {
	Date string              `json:"date"`
	Logs []models.MissionLog `json:"logs"`
}

// MyPage is the personal dashboard payload.
type MyPage struct {
	User        models.User    `json:"user"`
	MissionLogs []LogGroup     `json:"missionLogs"`
	TotalCount  int            `json:"totalCount"`
	Ranks       map[string]int `json:"ranks"`
}

// MyPageService builds the personal dashboard.
type MyPageService struct {
	db       *gorm.DB
	missions *MissionService
	rankings *RankingService
}

// NewMyPageService creates a MyPageService over the same store.
func NewMyPageService(db *gorm.DB) *MyPageService {
	return &MyPageService{
		db:       db,
		missions: NewMissionService(db),
		rankings: NewRankingService(db),
	}
}

// Get returns profile, grouped history and ranks for userID.
func (s *MyPageService) Get(ctx context.Context, userID uint) (*MyPage, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	logs, err := s.missions.History(ctx, userID)
	if err != nil {
		return nil, err
	}

	snap, err := s.rankings.load(ctx, true)
	if err != nil {
		return nil, err
	}

	ranks := map[string]int{
		RankTotalKey: position(snap.total(), userID, len(snap.users)),
	}
	for _, c := range models.Categories() {
		ranks[string(c)] = position(snap.category(c), userID, len(snap.users))
	}

	return &MyPage{
		User:        user,
		MissionLogs: GroupByDay(logs),
		TotalCount:  len(logs),
		Ranks:       ranks,
	}, nil
}

// GroupByDay buckets logs by their stored UTC day, falling back to the day of
// CompletedAt for logs built in memory. Days are descending and logs within a
// day newest first, whatever the input order.
func GroupByDay(logs []models.MissionLog) []LogGroup {
	index := map[string]int{}
	groups := []LogGroup{}
	for _, l := range logs {
		day := l.CompletedDate
		if day == "" {
			day = models.DayKey(l.CompletedAt)
		}
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, LogGroup{Date: day})
		}
		groups[i].Logs = append(groups[i].Logs, l)
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Date > groups[j].Date })
	for _, g := range groups {
		sort.SliceStable(g.Logs, func(i, j int) bool {
			return g.Logs[i].CompletedAt.After(g.Logs[j].CompletedAt)
		})
	}
	return groups
}

// position is the 1-based index of userID in ranking. A user missing from the
// ranking gets userCount+1.
func position(ranking []RankEntry, userID uint, userCount int) int {
	for i, e := range ranking {
		if e.ID == userID {
			return i + 1
		}
	}
	return userCount + 1
}
