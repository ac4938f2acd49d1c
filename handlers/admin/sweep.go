package admin

import (
	"time"

	"taskquest/database"
	"taskquest/gamification"

	"github.com/gofiber/fiber/v2"
)

// RunStreakSweep triggers the daily streak-reset sweep manually.
// POST /api/admin/sweep?as_of=2026-09-01
func RunStreakSweep(c *fiber.Ctx) error {
	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "as_of must be YYYY-MM-DD"})
		}
		asOf = parsed
	}

	engine := gamification.NewEngine(database.GetDB())
	reset, err := engine.RunDailyStreakSweep(asOf)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Sweep failed"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"users_reset": reset,
		"as_of":       asOf.Format("2006-01-02"),
	})
}
