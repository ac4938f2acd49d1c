package admin

import (
	"taskquest/criteria"
	"taskquest/database"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetAchievements returns all achievements
func GetAchievements(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievements []models.Achievement
	if err := db.Find(&achievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	return c.JSON(fiber.Map{"success": true, "achievements": achievements})
}

// CreateAchievement creates a new achievement. Criteria strings the engine
// cannot parse are accepted but flagged in the response — the evaluator
// will silently skip them.
func CreateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievement models.Achievement
	if err := c.BodyParser(&achievement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if achievement.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Achievement name required"})
	}

	if err := db.Create(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create achievement"})
	}

	_, _, parsed := criteria.Parse(achievement.Criteria)

	return c.Status(201).JSON(fiber.Map{
		"success":         true,
		"achievement":     achievement,
		"criteria_parsed": parsed,
	})
}

// UpdateAchievement updates an existing achievement. Achievements someone
// has already earned are immutable.
func UpdateAchievement(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievement models.Achievement
	if err := db.First(&achievement, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	earned, err := achievementEarnedCount(achievement.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check achievement usage"})
	}
	if earned > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error": "Achievement has been earned and cannot be modified",
		})
	}

	if err := c.BodyParser(&achievement); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := db.Save(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update achievement"})
	}

	return c.JSON(fiber.Map{"success": true, "achievement": achievement})
}

// DeleteAchievement deletes an achievement unless any user has earned it
func DeleteAchievement(c *fiber.Ctx) error {
	db := database.GetDB()

	var achievement models.Achievement
	if err := db.First(&achievement, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Achievement not found"})
	}

	earned, err := achievementEarnedCount(achievement.ID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to check achievement usage"})
	}
	if earned > 0 {
		return c.Status(409).JSON(fiber.Map{
			"error":  "Achievement has been earned and cannot be deleted",
			"earned": earned,
		})
	}

	if err := db.Delete(&achievement).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete achievement"})
	}

	return c.JSON(fiber.Map{"success": true, "message": "Achievement deleted successfully"})
}

func achievementEarnedCount(achievementID uint) (int64, error) {
	db := database.GetDB()
	var count int64
	err := db.Model(&models.UserAchievement{}).
		Where("achievement_id = ?", achievementID).
		Count(&count).Error
	return count, err
}
