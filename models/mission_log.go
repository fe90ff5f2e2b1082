package models

import "time"

// DayLayout formats the UTC calendar day a log belongs to.
const DayLayout = "2006-01-02"

// MissionLog records that a user completed a mission. CompletedDate is the UTC
// day of CompletedAt; the unique index keeps one log per user, mission and day.
type MissionLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_log_user_mission_day,priority:1" json:"userId"`
	MissionID     uint      `gorm:"not null;index;uniqueIndex:idx_log_user_mission_day,priority:2" json:"missionId"`
	CompletedDate string    `gorm:"size:10;not null;uniqueIndex:idx_log_user_mission_day,priority:3" json:"-"`
	CompletedAt   time.Time `gorm:"not null;index" json:"completedAt"`
	Mission       Mission   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"mission"`
}

// DayKey returns the UTC calendar day of t in DayLayout.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// All returns every model for auto-migration, parents first.
func All() []interface{} {
	return []interface{}{&User{}, &Mission{}, &MissionLog{}}
}
