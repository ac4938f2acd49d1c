// models/achievement.go
package models

import "time"

type Achievement struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `gorm:"not null" json:"description"`
	Icon        string `json:"icon"`

	// Criteria is a space-delimited predicate, e.g. "points 100",
	// "tasks completed 10", "streak 5". The last token is the threshold.
	Criteria string `gorm:"not null" json:"criteria"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
