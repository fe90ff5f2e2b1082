package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/missionboard/models"
)

// MissionStatus is a catalog entry with today's completion flag for one user.
type MissionStatus struct {
	models.Mission
	Completed bool `json:"completed"`
}

// ToggleResult describes the outcome of a single toggle.
type ToggleResult struct {
	Points    int         `json:"points"`
	Completed bool        `json:"completed"`
	User      models.User `json:"user"`
}

// MissionService implements the catalog and the daily completion toggle.
type MissionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMissionService creates a MissionService using the wall clock.
func NewMissionService(db *gorm.DB) *MissionService {
	return &MissionService{db: db, now: time.Now}
}

// WithClock returns a copy that reads the current time from now.
func (s *MissionService) WithClock(now func() time.Time) *MissionService {
	cp := *s
	cp.now = now
	return &cp
}

// ListWithStatus returns the whole catalog ordered by id, flagging the missions
// the user completed during the current UTC day.
func (s *MissionService) ListWithStatus(ctx context.Context, userID uint) ([]MissionStatus, error) {
	db := s.db.WithContext(ctx)

	var missions []models.Mission
	if err := db.Order("id ASC").Find(&missions).Error; err != nil {
		return nil, err
	}

	var doneIDs []uint
	if err := db.Model(&models.MissionLog{}).
		Where("user_id = ? AND completed_date = ?", userID, models.DayKey(s.now())).
		Pluck("mission_id", &doneIDs).Error; err != nil {
		return nil, err
	}
	done := make(map[uint]struct{}, len(doneIDs))
	for _, id := range doneIDs {
		done[id] = struct{}{}
	}

	out := make([]MissionStatus, 0, len(missions))
	for _, m := range missions {
		_, ok := done[m.ID]
		out = append(out, MissionStatus{Mission: m, Completed: ok})
	}
	return out, nil
}

// Toggle marks the mission complete for today or, if it already is, un-marks it.
// The log mutation and the points adjustment commit together.
func (s *MissionService) Toggle(ctx context.Context, userID, missionID uint) (*ToggleResult, error) {
	var mission models.Mission
	if err := s.db.WithContext(ctx).First(&mission, missionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissionNotFound
		}
		return nil, err
	}

	now := s.now().UTC()
	res, err := s.toggleOnce(ctx, userID, mission, now)
	if isDuplicateKey(err) {
		// another connection inserted today's log first; the retry sees it and un-marks
		res, err = s.toggleOnce(ctx, userID, mission, now)
	}
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *MissionService) toggleOnce(ctx context.Context, userID uint, mission models.Mission, now time.Time) (*ToggleResult, error) {
	day := models.DayKey(now)
	var res ToggleResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Row lock on the user serializes toggles of the same member.
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var existing models.MissionLog
		err := tx.Where("user_id = ? AND mission_id = ? AND completed_date = ?", userID, mission.ID, day).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&models.MissionLog{}, existing.ID).Error; err != nil {
				return err
			}
			res.Points = -mission.Points
			res.Completed = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := models.MissionLog{
				UserID:        userID,
				MissionID:     mission.ID,
				CompletedDate: day,
				CompletedAt:   now,
			}
			if err := tx.Omit(clause.Associations).Create(&record).Error; err != nil {
				return err
			}
			res.Points = mission.Points
			res.Completed = true
		default:
			return err
		}

		if err := tx.Model(&models.User{}).Where("id = ?", userID).
			UpdateColumn("total_points", gorm.Expr("total_points + ?", res.Points)).Error; err != nil {
			return err
		}
		return tx.First(&res.User, userID).Error
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// History returns every log the user ever produced with its mission, newest first.
func (s *MissionService) History(ctx context.Context, userID uint) ([]models.MissionLog, error) {
	var logs []models.MissionLog
	err := s.db.WithContext(ctx).
		Preload("Mission").
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Order("id DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}
