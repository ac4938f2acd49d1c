package gamification

import (
	"testing"

	"taskquest/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps the in-memory database alive and shared.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tier{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.ActivityLogEntry{},
		&models.Project{},
		&models.Task{},
	))

	tiers := []models.Tier{
		{Name: "Novice", MinPoints: 0, Rank: 1},
		{Name: "Aspirant", MinPoints: 30, Rank: 2},
		{Name: "Contributor", MinPoints: 100, Rank: 3},
	}
	require.NoError(t, db.Create(&tiers).Error)

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	floor := tierByName(t, db, "Novice")
	user := models.User{
		Username: username,
		Password: "x",
		TierID:   floor.ID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func tierByName(t *testing.T, db *gorm.DB, name string) models.Tier {
	t.Helper()

	var tier models.Tier
	require.NoError(t, db.Where("name = ?", name).First(&tier).Error)
	return tier
}

func seedAchievement(t *testing.T, db *gorm.DB, name, criteria string) models.Achievement {
	t.Helper()

	achievement := models.Achievement{Name: name, Description: name, Criteria: criteria}
	require.NoError(t, db.Create(&achievement).Error)
	return achievement
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()

	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}

func auditCount(t *testing.T, db *gorm.DB, userID uint, kind string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&models.ActivityLogEntry{}).
		Where("user_id = ? AND kind = ?", userID, kind).
		Count(&count).Error)
	return count
}
