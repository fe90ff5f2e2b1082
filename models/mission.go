package models

import "time"

// Mission is a catalog entry worth a fixed number of points.
type Mission struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Points      int       `gorm:"not null" json:"points"`
	Category    Category  `gorm:"size:32;not null;index" json:"category"`
	Icon        string    `gorm:"size:64" json:"icon,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
