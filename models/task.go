// models/task.go
package models

import "time"

// Task statuses
const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"
)

type Task struct {
	ID          uint     `gorm:"primaryKey" json:"id"`
	ProjectID   uint     `gorm:"not null;index" json:"project_id"`
	Project     *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Title       string   `gorm:"not null;size:200" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	AssigneeID  *uint    `gorm:"index" json:"assignee_id"`
	Assignee    *User    `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	Points      int      `gorm:"default:0" json:"points"`
	Status      string   `gorm:"default:'todo';size:20;index" json:"status"`

	// Set the first time the task enters "done". Points are awarded exactly
	// once per task and are not clawed back when it leaves "done".
	PointsAwardedAt *time.Time `json:"points_awarded_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
