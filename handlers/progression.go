// handlers/progression.go
package handlers

import (
	"taskquest/database"
	"taskquest/middleware"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetProgression returns the current user's progression snapshot.
func GetProgression(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var user models.User

	if err := db.Preload("Tier").First(&user, userID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	response := fiber.Map{
		"success":         true,
		"point_balance":   user.PointBalance,
		"tier":            user.Tier,
		"streak_current":  user.StreakCurrent,
		"streak_best":     user.StreakBest,
		"tasks_completed": user.TasksCompleted,
	}

	// Distance to the next tier up, if there is one.
	var nextTier models.Tier
	if err := db.Where("min_points > ?", user.PointBalance).
		Order("min_points ASC").First(&nextTier).Error; err == nil {
		response["next_tier"] = nextTier
		response["points_to_next_tier"] = nextTier.MinPoints - user.PointBalance
	}

	return c.JSON(response)
}

// GetUserAchievements returns all achievements with the user's earned state.
func GetUserAchievements(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()

	var earned []models.UserAchievement
	if err := db.Preload("Achievement").Where("user_id = ?", userID).Order("earned_at DESC").Find(&earned).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch achievements"})
	}

	var allAchievements []models.Achievement
	if err := db.Find(&allAchievements).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch all achievements"})
	}

	earnedMap := make(map[uint]models.UserAchievement)
	for _, ua := range earned {
		earnedMap[ua.AchievementID] = ua
	}

	achievements := make([]fiber.Map, 0, len(allAchievements))
	for _, achievement := range allAchievements {
		achData := fiber.Map{
			"id":          achievement.ID,
			"name":        achievement.Name,
			"description": achievement.Description,
			"icon":        achievement.Icon,
			"criteria":    achievement.Criteria,
			"earned":      false,
		}

		if ua, ok := earnedMap[achievement.ID]; ok {
			achData["earned"] = true
			achData["earned_at"] = ua.EarnedAt
		}

		achievements = append(achievements, achData)
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"achievements": achievements,
		"total":        len(allAchievements),
		"earned":       len(earned),
	})
}
