// models/activity.go
package models

import "time"

// Activity log kinds, stable across callers. Consumed by user-facing feeds.
const (
	ActivityPointsAdjusted    = "points-adjusted"
	ActivityTaskCompleted     = "task-completed"
	ActivityTierAchieved      = "tier-achieved"
	ActivityStreakUpdated     = "streak-updated"
	ActivityAchievementEarned = "achievement-earned"
)

// ActivityLogEntry is an append-only audit record. Never mutated or deleted.
type ActivityLogEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	User         *User     `gorm:"foreignKey:UserID" json:"-"`
	Kind         string    `gorm:"not null;index;size:50" json:"kind"`
	Description  string    `gorm:"not null" json:"description"`
	PointsChange *int      `json:"points_change,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (ActivityLogEntry) TableName() string {
	return "activity_log_entries"
}
