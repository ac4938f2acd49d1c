package gamification

import (
	"errors"
	"fmt"
	"log"
	"time"

	"taskquest/models"

	"gorm.io/gorm"
)

// Engine is the progression orchestrator: the single entry point external
// triggers go through. Each entry point runs its whole sub-step sequence
// inside one transaction, so a partial result (points applied but tier not
// recalculated) is never observable. Sub-steps receive the transaction
// handle explicitly; nothing in this package touches a global connection.
type Engine struct {
	db  *gorm.DB
	now func() time.Time
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db, now: time.Now}
}

// Result is the post-run snapshot returned to callers.
type Result struct {
	User            models.User          `json:"user"`
	NewBalance      int                  `json:"new_balance"`
	Tier            models.Tier          `json:"tier"`
	TierChanged     bool                 `json:"tier_changed"`
	NewAchievements []models.Achievement `json:"new_achievements"`
}

// OnTaskCompleted awards rewardPoints for a task entering "done" for the
// first time, then recalculates the tier against the post-award balance,
// records today's activity for the streak, and evaluates achievements
// against the post-tier, post-streak state. That order is fixed: achievement
// criteria may reference any of points, tasks completed, or streak.
//
// Single-fire is the caller's responsibility — a task moving into "done"
// again must not reach this method, and moving out of "done" never claws
// points back.
func (e *Engine) OnTaskCompleted(userID uint, rewardPoints int) (*Result, error) {
	var result Result

	err := e.db.Transaction(func(tx *gorm.DB) error {
		prevTier, err := currentTierID(tx, userID)
		if err != nil {
			return err
		}

		balance, err := ApplyPointDelta(tx, userID, rewardPoints,
			fmt.Sprintf("Task completion reward: %+d points", rewardPoints))
		if err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", userID).
			UpdateColumn("tasks_completed", gorm.Expr("tasks_completed + 1")).Error; err != nil {
			return err
		}

		entry := models.ActivityLogEntry{
			UserID:       userID,
			Kind:         models.ActivityTaskCompleted,
			Description:  "Completed a task",
			PointsChange: &rewardPoints,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		tier, err := RecalculateTier(tx, userID)
		if err != nil {
			return err
		}

		if _, _, err := UpdateStreak(tx, userID, e.now()); err != nil {
			return err
		}

		newAchievements, err := EvaluateAchievements(tx, userID, e.now())
		if err != nil {
			return err
		}

		result = Result{
			NewBalance:      balance,
			Tier:            *tier,
			TierChanged:     tier.ID != prevTier,
			NewAchievements: newAchievements,
		}
		return loadSnapshot(tx, userID, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// AdjustPoints applies an administrative correction. The delta may be
// negative; the tier is recalculated either way. Streaks are not touched —
// an admin fixing a balance is not user activity.
func (e *Engine) AdjustPoints(userID uint, delta int, reason string) (*Result, error) {
	if reason == "" {
		reason = fmt.Sprintf("Manual point adjustment: %+d points", delta)
	}

	var result Result

	err := e.db.Transaction(func(tx *gorm.DB) error {
		prevTier, err := currentTierID(tx, userID)
		if err != nil {
			return err
		}

		balance, err := ApplyPointDelta(tx, userID, delta, reason)
		if err != nil {
			return err
		}

		tier, err := RecalculateTier(tx, userID)
		if err != nil {
			return err
		}

		newAchievements, err := EvaluateAchievements(tx, userID, e.now())
		if err != nil {
			return err
		}

		result = Result{
			NewBalance:      balance,
			Tier:            *tier,
			TierChanged:     tier.ID != prevTier,
			NewAchievements: newAchievements,
		}
		return loadSnapshot(tx, userID, &result)
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RunDailyStreakSweep zeroes the current streak of every user who was not
// active yesterday or today. Each user is reset in its own transaction, so
// one bad row cannot block the rest of the batch; failures are logged and
// counted, and the number of successful resets is returned.
func (e *Engine) RunDailyStreakSweep(asOf time.Time) (int, error) {
	// Active yesterday means the streak can still be extended today, so
	// only users whose last activity day ended before yesterday qualify.
	cutoff := startOfDay(asOf).AddDate(0, 0, -1)

	var userIDs []uint
	err := e.db.Model(&models.User{}).
		Where("streak_current > 0").
		Where("last_activity_at IS NULL OR last_activity_at < ?", cutoff).
		Pluck("id", &userIDs).Error
	if err != nil {
		return 0, err
	}

	reset := 0
	failed := 0
	for _, id := range userIDs {
		err := e.db.Transaction(func(tx *gorm.DB) error {
			if err := resetStreak(tx, id); err != nil {
				return err
			}
			// Losing a streak can still leave other metrics newly
			// satisfied (e.g. an achievement seeded after the points
			// were earned), so re-evaluate.
			_, err := EvaluateAchievements(tx, id, e.now())
			return err
		})
		if err != nil {
			failed++
			log.Printf("streak sweep: user %d failed: %v", id, err)
			continue
		}
		reset++
	}

	if failed > 0 {
		log.Printf("🧹 Streak sweep finished: %d reset, %d failed", reset, failed)
	}
	return reset, nil
}

func currentTierID(tx *gorm.DB, userID uint) (uint, error) {
	var user models.User
	if err := tx.Select("id", "tier_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.TierID, nil
}

func loadSnapshot(tx *gorm.DB, userID uint, result *Result) error {
	return tx.Preload("Tier").First(&result.User, userID).Error
}
