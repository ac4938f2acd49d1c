// models/tier.go
package models

import "time"

// Tier is an ordered membership level determined purely by a point threshold.
// Tiers are reference data: administered outside the engine, read-only inside it.
type Tier struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null;uniqueIndex" json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	MinPoints   int    `gorm:"not null;default:0" json:"min_points"`
	Rank        int    `gorm:"not null;uniqueIndex" json:"rank"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tier) TableName() string {
	return "tiers"
}
