package admin

import (
	"taskquest/database"
	"taskquest/gamification"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers returns all users with pagination
func GetUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)

	db := database.GetDB()

	query := db.Model(&models.User{})
	if search := c.Query("search"); search != "" {
		query = query.Where("username ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	var users []models.User
	if err := query.Preload("Tier").Order("created_at DESC").Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch users"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"users":   users,
		"total":   total,
	})
}

// GetUser returns a single user
func GetUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.Preload("Tier").Preload("Achievements.Achievement").First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// BanUser toggles a user's banned flag
func BanUser(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	if err := db.Model(&user).Update("is_banned", !user.IsBanned).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update user"})
	}

	return c.JSON(fiber.Map{"success": true, "is_banned": !user.IsBanned})
}

type AdjustPointsRequest struct {
	Delta  int    `json:"delta"`
	Reason string `json:"reason"`
}

// AdjustUserPoints applies a manual point correction through the
// progression engine: ledger, then tier recalculation, then achievement
// evaluation, all in one transaction. Streaks are untouched.
func AdjustUserPoints(c *fiber.Ctx) error {
	var req AdjustPointsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Delta == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Delta must be non-zero"})
	}
	if req.Reason == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Reason is required"})
	}

	db := database.GetDB()
	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	engine := gamification.NewEngine(db)
	result, err := engine.AdjustPoints(user.ID, req.Delta, req.Reason)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to adjust points"})
	}

	return c.JSON(fiber.Map{"success": true, "result": result})
}
