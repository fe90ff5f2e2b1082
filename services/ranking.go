package services

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/cppla/missionboard/models"
)

// RankEntry is one user's row in a ranking view.
type RankEntry struct {
	ID         uint              `json:"id"`
	Nickname   string            `json:"nickname"`
	Department models.Department `json:"department"`
	Points     int               `json:"points"`
}

// DepartmentRank aggregates the members of one department.
type DepartmentRank struct {
	Department models.Department `json:"department"`
	Points     int               `json:"points"`
	UserCount  int               `json:"userCount"`
}

// AllRankings bundles every ranking view for the leaderboard page.
type AllRankings struct {
	Total      []RankEntry                     `json:"total"`
	Department []DepartmentRank                `json:"department"`
	Categories map[models.Category][]RankEntry `json:"categories"`
}

// RankingService aggregates leaderboards. Category totals are always summed
// from mission logs and never read from users.total_points.
type RankingService struct {
	db *gorm.DB
}

// NewRankingService creates a RankingService.
func NewRankingService(db *gorm.DB) *RankingService {
	return &RankingService{db: db}
}

// snapshot is everything the ranking views are derived from.
type snapshot struct {
	users      []models.User // ordered by id
	categories map[uint]map[models.Category]int
}

func (s *RankingService) load(ctx context.Context, withCategories bool) (*snapshot, error) {
	db := s.db.WithContext(ctx)
	snap := &snapshot{categories: map[uint]map[models.Category]int{}}

	if err := db.Order("id ASC").Find(&snap.users).Error; err != nil {
		return nil, err
	}
	if !withCategories {
		return snap, nil
	}

	type row struct {
		UserID   uint
		Category models.Category
		Points   int
	}
	var rows []row
	err := db.Table("mission_logs").
		Select("mission_logs.user_id AS user_id, missions.category AS category, COALESCE(SUM(missions.points), 0) AS points").
		Joins("JOIN missions ON missions.id = mission_logs.mission_id").
		Group("mission_logs.user_id, missions.category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		byCat, ok := snap.categories[r.UserID]
		if !ok {
			byCat = map[models.Category]int{}
			snap.categories[r.UserID] = byCat
		}
		byCat[r.Category] = r.Points
	}
	return snap, nil
}

func (snap *snapshot) total() []RankEntry {
	return rank(snap.users, func(u models.User) int { return u.TotalPoints })
}

func (snap *snapshot) category(c models.Category) []RankEntry {
	return rank(snap.users, func(u models.User) int { return snap.categories[u.ID][c] })
}

func (snap *snapshot) departments() []DepartmentRank {
	byDept := map[models.Department]*DepartmentRank{}
	out := make([]DepartmentRank, 0, len(models.Departments()))
	for _, d := range models.Departments() {
		out = append(out, DepartmentRank{Department: d})
	}
	for i := range out {
		byDept[out[i].Department] = &out[i]
	}
	for _, u := range snap.users {
		if d, ok := byDept[u.Department]; ok {
			d.Points += u.TotalPoints
			d.UserCount++
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// rank orders users by points descending; ties keep id order.
func rank(users []models.User, points func(models.User) int) []RankEntry {
	out := make([]RankEntry, 0, len(users))
	for _, u := range users {
		out = append(out, RankEntry{
			ID:         u.ID,
			Nickname:   u.Nickname,
			Department: u.Department,
			Points:     points(u),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out
}

// TotalUsers returns every user ordered by totalPoints descending, ties by id.
func (s *RankingService) TotalUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("total_points DESC").Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Total ranks every user by lifetime totalPoints.
func (s *RankingService) Total(ctx context.Context) ([]RankEntry, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return snap.total(), nil
}

// Departments sums totalPoints per department, including empty departments.
func (s *RankingService) Departments(ctx context.Context) ([]DepartmentRank, error) {
	snap, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	return snap.departments(), nil
}

// Category ranks every user by the points of their logs in category c.
func (s *RankingService) Category(ctx context.Context, c models.Category) ([]RankEntry, error) {
	if !c.Valid() {
		return nil, ErrInvalidCategory
	}
	snap, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	return snap.category(c), nil
}

// All computes every view from a single read of users and logs.
func (s *RankingService) All(ctx context.Context) (*AllRankings, error) {
	snap, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}
	all := &AllRankings{
		Total:      snap.total(),
		Department: snap.departments(),
		Categories: make(map[models.Category][]RankEntry, len(models.Categories())),
	}
	for _, c := range models.Categories() {
		all.Categories[c] = snap.category(c)
	}
	return all, nil
}
