package admin

import (
	"taskquest/database"
	"taskquest/gamification"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetTiers returns all tiers ordered by rank
func GetTiers(c *fiber.Ctx) error {
	db := database.GetDB()

	var tiers []models.Tier
	if err := db.Order("rank ASC").Find(&tiers).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tiers"})
	}

	return c.JSON(fiber.Map{"success": true, "tiers": tiers})
}

// CreateTier creates a new tier
func CreateTier(c *fiber.Ctx) error {
	db := database.GetDB()

	var tier models.Tier
	if err := c.BodyParser(&tier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if tier.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Tier name required"})
	}
	if tier.MinPoints < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Minimum points must not be negative"})
	}

	if err := db.Create(&tier).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create tier"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "tier": tier})
}

// UpdateTier updates an existing tier. A threshold change re-resolves every
// user's tier in the same transaction, so stored tier ids never disagree
// with what the current table resolves to.
func UpdateTier(c *fiber.Ctx) error {
	db := database.GetDB()

	var tier models.Tier
	if err := db.First(&tier, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Tier not found"})
	}

	prevMinPoints := tier.MinPoints
	if err := c.BodyParser(&tier); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if tier.MinPoints < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Minimum points must not be negative"})
	}

	usersMoved := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&tier).Error; err != nil {
			return err
		}
		if tier.MinPoints != prevMinPoints {
			var err error
			usersMoved, err = gamification.RecalculateAllTiers(tx)
			return err
		}
		return nil
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update tier"})
	}

	return c.JSON(fiber.Map{"success": true, "tier": tier, "users_moved": usersMoved})
}

// DeleteTier removes a tier. A tier any user currently holds cannot be
// deleted — that would break the invariant that every user's tier id
// resolves to an existing row.
func DeleteTier(c *fiber.Ctx) error {
	db := database.GetDB()

	var tier models.Tier
	if err := db.First(&tier, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Tier not found"})
	}

	var holders int64
	if err := db.Model(&models.User{}).Where("tier_id = ?", tier.ID).Count(&holders).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check tier usage"})
	}
	if holders > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error":   "Tier is held by users and cannot be deleted",
			"holders": holders,
		})
	}

	if err := db.Delete(&tier).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete tier"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Tier deleted successfully"})
}
