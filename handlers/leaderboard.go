// handlers/leaderboard.go
package handlers

import (
	"taskquest/database"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the global leaderboard
// GET /api/leaderboard?category=points&limit=100&offset=0
func GetLeaderboard(c *fiber.Ctx) error {
	category := c.Query("category", "points")
	limit := c.QueryInt("limit", 100)
	if limit < 1 || limit > 100 {
		limit = 100
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	var orderBy string
	switch category {
	case "streak":
		orderBy = "streak_best DESC, streak_current DESC"
	case "tasks":
		orderBy = "tasks_completed DESC, point_balance DESC"
	case "points":
		orderBy = "point_balance DESC, tasks_completed DESC"
	default:
		category = "points"
		orderBy = "point_balance DESC, tasks_completed DESC"
	}

	db := database.GetDB()
	var users []models.User

	if err := db.Preload("Tier").
		Where("is_guest = ?", false).
		Order(orderBy).
		Limit(limit).
		Offset(offset).
		Find(&users).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	// Remove sensitive data
	for i := range users {
		users[i].Password = ""
		users[i].Email = nil
	}

	var total int64
	db.Model(&models.User{}).Where("is_guest = ?", false).Count(&total)

	return c.JSON(fiber.Map{
		"success":  true,
		"users":    users,
		"category": category,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetUserRank returns a user's rank by point balance
// GET /api/leaderboard/user/:id
func GetUserRank(c *fiber.Ctx) error {
	db := database.GetDB()

	var user models.User
	if err := db.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "User not found"})
	}

	var rank int64
	db.Model(&models.User{}).
		Where("is_guest = ? AND point_balance > ?", false, user.PointBalance).
		Count(&rank)

	return c.JSON(fiber.Map{
		"success":       true,
		"user_id":       user.ID,
		"username":      user.Username,
		"point_balance": user.PointBalance,
		"rank":          rank + 1,
	})
}
