package services

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cppla/missionboard/models"
)

// Drift is a user whose stored totalPoints disagreed with their logs.
type Drift struct {
	UserID uint `json:"userId"`
	Stored int  `json:"stored"`
	Actual int  `json:"actual"`
}

// PointsReconciler repairs users.total_points from the mission logs.
type PointsReconciler struct {
	db *gorm.DB
}

// NewPointsReconciler creates a PointsReconciler.
func NewPointsReconciler(db *gorm.DB) *PointsReconciler {
	return &PointsReconciler{db: db}
}

// Reconcile recomputes every user's lifetime points and rewrites the ones that
// drifted. User rows stay locked for the duration so concurrent toggles wait.
func (r *PointsReconciler) Reconcile(ctx context.Context) ([]Drift, error) {
	var drifts []Drift
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Order("id ASC").Find(&users).Error; err != nil {
			return err
		}

		type sumRow struct {
			UserID uint
			Points int
		}
		var rows []sumRow
		err := tx.Table("mission_logs").
			Select("mission_logs.user_id AS user_id, COALESCE(SUM(missions.points), 0) AS points").
			Joins("JOIN missions ON missions.id = mission_logs.mission_id").
			Group("mission_logs.user_id").
			Scan(&rows).Error
		if err != nil {
			return err
		}
		actual := make(map[uint]int, len(rows))
		for _, row := range rows {
			actual[row.UserID] = row.Points
		}

		for _, u := range users {
			if want := actual[u.ID]; want != u.TotalPoints {
				if err := tx.Model(&models.User{}).Where("id = ?", u.ID).
					UpdateColumn("total_points", want).Error; err != nil {
					return err
				}
				drifts = append(drifts, Drift{UserID: u.ID, Stored: u.TotalPoints, Actual: want})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drifts, nil
}
