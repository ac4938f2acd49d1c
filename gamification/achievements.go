package gamification

import (
	"errors"
	"fmt"
	"time"

	"taskquest/criteria"
	"taskquest/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EvaluateAchievements checks every achievement the user has not yet earned
// against their current aggregates (point balance, tasks completed, current
// streak) and records the newly satisfied ones, stamped with the caller's
// reference time. Earning is monotonic: a duplicate insert races down to a
// no-op, never an error. Returns the list of achievements earned by this
// invocation.
func EvaluateAchievements(tx *gorm.DB, userID uint, at time.Time) ([]models.Achievement, error) {
	var user models.User
	if err := tx.Select("id", "point_balance", "tasks_completed", "streak_current").
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var all []models.Achievement
	if err := tx.Find(&all).Error; err != nil {
		return nil, err
	}

	var earnedIDs []uint
	if err := tx.Model(&models.UserAchievement{}).
		Where("user_id = ?", userID).
		Pluck("achievement_id", &earnedIDs).Error; err != nil {
		return nil, err
	}

	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	newAchievements := []models.Achievement{}

	for _, achievement := range all {
		if earned[achievement.ID] {
			continue
		}

		metric, threshold, ok := criteria.Parse(achievement.Criteria)
		if !ok {
			// Unrecognized criteria match nothing.
			continue
		}

		var value int
		switch metric {
		case criteria.MetricPoints:
			value = user.PointBalance
		case criteria.MetricTasksCompleted:
			value = user.TasksCompleted
		case criteria.MetricStreak:
			value = user.StreakCurrent
		}

		if value < threshold {
			continue
		}

		ua := models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			EarnedAt:      at.UTC(),
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// Another path already earned it; treat as already-earned.
			continue
		}

		entry := models.ActivityLogEntry{
			UserID:      userID,
			Kind:        models.ActivityAchievementEarned,
			Description: fmt.Sprintf("Earned achievement %s", achievement.Name),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return nil, err
		}

		newAchievements = append(newAchievements, achievement)
	}

	return newAchievements, nil
}
