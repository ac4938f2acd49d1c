package gamification

import (
	"testing"
	"time"

	"taskquest/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var streakNow = time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

func TestUpdateStreakFirstActivity(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	current, best, err := UpdateStreak(db, user.ID, streakNow)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
	assert.Equal(t, 1, best)

	reloaded := reloadUser(t, db, user.ID)
	require.NotNil(t, reloaded.LastActivityAt)
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityStreakUpdated))
}

func TestUpdateStreakIncrementsFromYesterday(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	yesterday := streakNow.AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak_current":   2,
			"streak_best":      5,
			"last_activity_at": yesterday,
		}).Error)

	current, best, err := UpdateStreak(db, user.ID, streakNow)
	require.NoError(t, err)
	assert.Equal(t, 3, current)
	assert.Equal(t, 5, best, "best is preserved when current stays below it")
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityStreakUpdated))
}

func TestUpdateStreakResetsAfterGap(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	twoDaysAgo := streakNow.AddDate(0, 0, -2)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak_current":   2,
			"streak_best":      5,
			"last_activity_at": twoDaysAgo,
		}).Error)

	current, best, err := UpdateStreak(db, user.ID, streakNow)
	require.NoError(t, err)
	assert.Equal(t, 1, current)
	assert.Equal(t, 5, best)
}

func TestUpdateStreakSameDayIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	current, best, err := UpdateStreak(db, user.ID, streakNow)
	require.NoError(t, err)

	// Time of day differs, calendar day does not.
	later := streakNow.Add(5 * time.Hour)
	current2, best2, err := UpdateStreak(db, user.ID, later)
	require.NoError(t, err)

	assert.Equal(t, current, current2)
	assert.Equal(t, best, best2)

	// No additional write: one audit entry total, timestamp unchanged.
	assert.EqualValues(t, 1, auditCount(t, db, user.ID, models.ActivityStreakUpdated))
	reloaded := reloadUser(t, db, user.ID)
	assert.True(t, reloaded.LastActivityAt.Equal(streakNow))
}

func TestUpdateStreakRaisesBest(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	yesterday := streakNow.AddDate(0, 0, -1)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak_current":   5,
			"streak_best":      5,
			"last_activity_at": yesterday,
		}).Error)

	current, best, err := UpdateStreak(db, user.ID, streakNow)
	require.NoError(t, err)
	assert.Equal(t, 6, current)
	assert.Equal(t, 6, best)
}

// Day boundaries are compared at midnight granularity: 23:50 yesterday to
// 00:10 today is consecutive, not a gap.
func TestUpdateStreakUsesCalendarDays(t *testing.T) {
	db := newTestDB(t)
	user := createUser(t, db, "alice")

	lateYesterday := time.Date(2026, 8, 31, 23, 50, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"streak_current":   1,
			"streak_best":      1,
			"last_activity_at": lateYesterday,
		}).Error)

	earlyToday := time.Date(2026, 9, 1, 0, 10, 0, 0, time.UTC)
	current, _, err := UpdateStreak(db, user.ID, earlyToday)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestUpdateStreakUnknownUser(t *testing.T) {
	db := newTestDB(t)

	_, _, err := UpdateStreak(db, 999, streakNow)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
