package gamification

import (
	"errors"
	"fmt"

	"taskquest/models"

	"gorm.io/gorm"
)

// ResolveTier selects, among all tiers with min_points <= balance, the one
// with the greatest min_points (ties broken by greatest rank). A balance
// below every threshold resolves to the floor tier, so negative balances
// never fail resolution. Only an empty tier table surfaces as
// ErrNoTierForBalance.
func ResolveTier(tx *gorm.DB, balance int) (*models.Tier, error) {
	var tier models.Tier
	err := tx.Where("min_points <= ?", balance).
		Order("min_points DESC").
		Order("rank DESC").
		First(&tier).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = tx.Order("min_points ASC").Order("rank ASC").First(&tier).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoTierForBalance
		}
	}
	if err != nil {
		return nil, err
	}
	return &tier, nil
}

// RecalculateAllTiers re-resolves every user's tier against the current
// tier table and returns how many users moved. Run after an admin edits a
// tier threshold, so stored tier ids do not drift from what the balances
// resolve to.
func RecalculateAllTiers(tx *gorm.DB) (int, error) {
	var ids []uint
	if err := tx.Model(&models.User{}).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}

	moved := 0
	for _, id := range ids {
		var before uint
		if err := tx.Model(&models.User{}).Where("id = ?", id).
			Pluck("tier_id", &before).Error; err != nil {
			return moved, err
		}
		tier, err := RecalculateTier(tx, id)
		if err != nil {
			return moved, err
		}
		if tier.ID != before {
			moved++
		}
	}
	return moved, nil
}

// RecalculateTier resolves the tier for the user's current balance and,
// only when it differs from the stored tier, updates the user and writes a
// tier-achieved audit entry. The resolver reflects the balance truthfully
// in both directions — a negative adjustment can demote a user.
func RecalculateTier(tx *gorm.DB, userID uint) (*models.Tier, error) {
	var user models.User
	if err := tx.Select("id", "point_balance", "tier_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tier, err := ResolveTier(tx, user.PointBalance)
	if err != nil {
		return nil, err
	}

	if tier.ID == user.TierID {
		// No-op: no write, no audit entry.
		return tier, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("tier_id", tier.ID).Error; err != nil {
		return nil, err
	}

	entry := models.ActivityLogEntry{
		UserID:      userID,
		Kind:        models.ActivityTierAchieved,
		Description: fmt.Sprintf("Reached tier %s", tier.Name),
	}
	if err := tx.Create(&entry).Error; err != nil {
		return nil, err
	}

	return tier, nil
}
