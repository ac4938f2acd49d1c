package gamification

import (
	"taskquest/models"

	"gorm.io/gorm"
)

// ApplyPointDelta adds delta (which may be negative) to the user's stored
// balance with a single atomic UPDATE and appends a points-adjusted audit
// entry. The balance is never read-then-written outside the UPDATE, so
// concurrent triggers for the same user cannot lose updates. Balances are
// not clamped at zero; admin corrections are allowed to drive them negative.
func ApplyPointDelta(tx *gorm.DB, userID uint, delta int, reason string) (int, error) {
	res := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("point_balance", gorm.Expr("point_balance + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, ErrUserNotFound
	}

	var balance int
	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		Pluck("point_balance", &balance).Error; err != nil {
		return 0, err
	}

	entry := models.ActivityLogEntry{
		UserID:       userID,
		Kind:         models.ActivityPointsAdjusted,
		Description:  reason,
		PointsChange: &delta,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return 0, err
	}

	return balance, nil
}
