// handlers/tasks_test.go
package handlers

import (
	"testing"
	"time"

	"taskquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTaskTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Tier{},
		&models.Project{},
		&models.Task{},
	))
	return db
}

func createTestTask(t *testing.T, db *gorm.DB) models.Task {
	t.Helper()

	project := models.Project{Name: "Backlog", OwnerID: 1}
	require.NoError(t, db.Create(&project).Error)

	assignee := uint(1)
	task := models.Task{
		ProjectID:  project.ID,
		Title:      "Write release notes",
		AssigneeID: &assignee,
		Points:     20,
		Status:     models.TaskStatusTodo,
	}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func TestClaimAwardStampFirstWriterWins(t *testing.T) {
	db := newTaskTestDB(t)
	task := createTestTask(t, db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	claimed, err := claimAwardStamp(db, task.ID, now)
	require.NoError(t, err)
	assert.True(t, claimed)

	// A second transition into "done" sees the stamp and does not claim,
	// even when it read the task before the first one committed.
	claimed, err = claimAwardStamp(db, task.ID, now.Add(time.Second))
	require.NoError(t, err)
	assert.False(t, claimed)

	var reloaded models.Task
	require.NoError(t, db.First(&reloaded, task.ID).Error)
	require.NotNil(t, reloaded.PointsAwardedAt)
	assert.True(t, reloaded.PointsAwardedAt.Equal(now), "the first claim's timestamp sticks")
}

func TestClaimAwardStampSurvivesStatusBounce(t *testing.T) {
	db := newTaskTestDB(t)
	task := createTestTask(t, db)
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	claimed, err := claimAwardStamp(db, task.ID, now)
	require.NoError(t, err)
	require.True(t, claimed)

	// Bounce out of "done" and back in. The stamp is never cleared, so
	// re-entering "done" cannot claim again.
	require.NoError(t, db.Model(&models.Task{}).Where("id = ?", task.ID).
		Updates(map[string]interface{}{"status": models.TaskStatusTodo, "completed_at": nil}).Error)

	claimed, err = claimAwardStamp(db, task.ID, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestClaimAwardStampUnknownTask(t *testing.T) {
	db := newTaskTestDB(t)

	claimed, err := claimAwardStamp(db, 999, time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, claimed)
}
