package gamification

import (
	"errors"
	"fmt"
	"time"

	"taskquest/models"

	"gorm.io/gorm"
)

// startOfDay normalizes a timestamp to midnight UTC. All streak arithmetic
// works on whole calendar days so time-of-day differences cannot drift the
// count.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// UpdateStreak records "activity happened today" for the user and returns
// the new current/best counters.
//
//   - last activity today: nothing changes — no write, no audit entry, so
//     the call is idempotent within a day.
//   - last activity exactly yesterday: current streak increments.
//   - no prior activity, or a gap of more than one day: current resets to 1.
//
// Best is never lowered. When anything changes, last_activity_at moves to
// now and a streak-updated audit entry carries both counters.
func UpdateStreak(tx *gorm.DB, userID uint, now time.Time) (current, best int, err error) {
	var user models.User
	if err := tx.Select("id", "streak_current", "streak_best", "last_activity_at").
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrUserNotFound
		}
		return 0, 0, err
	}

	today := startOfDay(now)

	if user.LastActivityAt != nil {
		lastDay := startOfDay(*user.LastActivityAt)
		if lastDay.Equal(today) {
			return user.StreakCurrent, user.StreakBest, nil
		}
		if lastDay.Equal(today.AddDate(0, 0, -1)) {
			current = user.StreakCurrent + 1
		} else {
			current = 1
		}
	} else {
		current = 1
	}

	best = user.StreakBest
	if current > best {
		best = current
	}

	if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"streak_current":   current,
		"streak_best":      best,
		"last_activity_at": now.UTC(),
	}).Error; err != nil {
		return 0, 0, err
	}

	entry := models.ActivityLogEntry{
		UserID:      userID,
		Kind:        models.ActivityStreakUpdated,
		Description: fmt.Sprintf("Streak updated: current %d, best %d", current, best),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, 0, err
	}

	return current, best, nil
}

// resetStreak forces the user's current streak to zero, preserving best,
// and writes the audit entry. Used by the daily sweep for users whose last
// activity day is before yesterday.
func resetStreak(tx *gorm.DB, userID uint) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND streak_current > 0", userID).
		UpdateColumn("streak_current", 0)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Already at zero (or gone); nothing to audit.
		return nil
	}

	entry := models.ActivityLogEntry{
		UserID:      userID,
		Kind:        models.ActivityStreakUpdated,
		Description: "Streak reset: no activity yesterday",
	}
	return tx.Create(&entry).Error
}
