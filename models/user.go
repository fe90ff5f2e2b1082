package models

import (
	"time"

	"gorm.io/gorm"
)

// User is a youth group member. Passwords are stored as bcrypt hashes only.
// TotalPoints is a running total maintained by the mission toggle.
type User struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Nickname     string       `gorm:"size:64;not null;uniqueIndex" json:"nickname"`
	PasswordHash string       `gorm:"size:255;not null" json:"-"`
	Department   Department   `gorm:"size:32;not null;index" json:"department"`
	TotalPoints  int          `gorm:"not null;default:0;index" json:"totalPoints"`
	CreatedAt    time.Time    `json:"-"`
	UpdatedAt    time.Time    `json:"-"`
	MissionLogs  []MissionLog `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

// BeforeCreate hook ensures timestamps are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
