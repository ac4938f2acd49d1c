package gamification

import (
	"testing"
	"time"

	"taskquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var achievementNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func TestEvaluateAchievementsEarnsOnThreshold(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "Century", "points 100")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("point_balance", 110).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "Century", earned[0].Name)
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityAchievementEarned))

	var ua models.UserAchievement
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&ua).Error)
	assert.True(t, ua.EarnedAt.Equal(achievementNow), "earn time comes from the caller's clock")
}

func TestEvaluateAchievementsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "Century", "points 100")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("point_balance", 150).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	require.Len(t, earned, 1)

	// Re-running returns nothing and writes nothing.
	earned, err = EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	assert.Empty(t, earned)
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityAchievementEarned))

	var count int64
	db.Model(&models.UserAchievement{}).Where("user_id = ?", user.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestEvaluateAchievementsBelowThreshold(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "Century", "points 100")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("point_balance", 99).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	assert.Empty(t, earned)
}

func TestEvaluateAchievementsMultipleInOneCall(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "Century", "points 100")
	seedAchievement(t, db, "Busy Bee", "tasks completed 10")
	seedAchievement(t, db, "On Fire", "streak 7")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"point_balance":   200,
			"tasks_completed": 12,
			"streak_current":  3,
		}).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	require.Len(t, earned, 2)

	names := []string{earned[0].Name, earned[1].Name}
	assert.Contains(t, names, "Century")
	assert.Contains(t, names, "Busy Bee")
}

func TestEvaluateAchievementsSkipsUnrecognizedCriteria(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "Mystery", "vibes immaculate")
	seedAchievement(t, db, "Broken", "points many")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		UpdateColumn("point_balance", 100000).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	assert.Empty(t, earned, "unparseable criteria match nothing and raise no error")
}

func TestEvaluateAchievementsStreakMetric(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")
	seedAchievement(t, db, "On Fire", "streak 7")

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{"streak_current": 7, "streak_best": 7}).Error)

	earned, err := EvaluateAchievements(db, user.ID, achievementNow)
	require.NoError(t, err)
	require.Len(t, earned, 1)
	assert.Equal(t, "On Fire", earned[0].Name)
}

func TestEvaluateAchievementsUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, err := EvaluateAchievements(db, 999, achievementNow)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
