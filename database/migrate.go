// database/migrate.go - Database Migration Runner
package database

import (
	"log"
	"taskquest/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Tier{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityLogEntry{},
		&models.Project{},
		&models.Task{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	if err := SeedReferenceData(db); err != nil {
		log.Fatalf("❌ Failed to seed reference data: %v", err)
	}

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes for hot query paths
func createIndexes() {
	db := GetDB()

	// User indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_point_balance ON users(point_balance DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_streak_best ON users(streak_best DESC)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_last_activity ON users(last_activity_at)")

	// Tier indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tiers_min_points ON tiers(min_points)")

	// Activity log indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_activity_user_created ON activity_log_entries(user_id, created_at DESC)")

	// Task indexes
	db.Exec("CREATE INDEX IF NOT EXISTS idx_tasks_assignee_status ON tasks(assignee_id, status)")
}

// SeedReferenceData inserts the default tiers and achievements when the
// tables are empty. The zero-point floor tier must always exist — the
// tier resolver treats a balance with no matching tier as a fatal
// misconfiguration.
func SeedReferenceData(db *gorm.DB) error {
	var tierCount int64
	if err := db.Model(&models.Tier{}).Count(&tierCount).Error; err != nil {
		return err
	}

	if tierCount == 0 {
		tiers := []models.Tier{
			{Name: "Novice", Description: "Just getting started", MinPoints: 0, Rank: 1},
			{Name: "Aspirant", Description: "Finding a rhythm", MinPoints: 30, Rank: 2},
			{Name: "Contributor", Description: "Pulling real weight", MinPoints: 100, Rank: 3},
			{Name: "Veteran", Description: "A steady hand", MinPoints: 500, Rank: 4},
			{Name: "Legend", Description: "The one others ask for help", MinPoints: 2000, Rank: 5},
		}
		if err := db.Create(&tiers).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded %d default tiers", len(tiers))
	}

	var achievementCount int64
	if err := db.Model(&models.Achievement{}).Count(&achievementCount).Error; err != nil {
		return err
	}

	if achievementCount == 0 {
		achievements := []models.Achievement{
			{Name: "First Steps", Description: "Complete your first task", Criteria: "tasks completed 1"},
			{Name: "Busy Bee", Description: "Complete 10 tasks", Criteria: "tasks completed 10"},
			{Name: "Workhorse", Description: "Complete 50 tasks", Criteria: "tasks completed 50"},
			{Name: "Century", Description: "Earn 100 points", Criteria: "points 100"},
			{Name: "High Roller", Description: "Earn 1000 points", Criteria: "points 1000"},
			{Name: "Warming Up", Description: "Keep a 3-day streak", Criteria: "streak 3"},
			{Name: "On Fire", Description: "Keep a 7-day streak", Criteria: "streak 7"},
			{Name: "Unstoppable", Description: "Keep a 30-day streak", Criteria: "streak 30"},
		}
		if err := db.Create(&achievements).Error; err != nil {
			return err
		}
		log.Printf("✅ Seeded %d default achievements", len(achievements))
	}

	return nil
}
