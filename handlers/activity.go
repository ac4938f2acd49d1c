// handlers/activity.go
package handlers

import (
	"log"
	"time"

	"taskquest/database"
	"taskquest/middleware"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// GetActivityFeed returns the current user's activity history, newest first.
func GetActivityFeed(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	db := database.GetDB()
	query := db.Where("user_id = ?", userID)

	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var entries []models.ActivityLogEntry
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entries).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch activity"})
	}

	var total int64
	db.Model(&models.ActivityLogEntry{}).Where("user_id = ?", userID).Count(&total)

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ActivityStreamHandler pushes new activity entries to the client over a
// WebSocket. Entries appended after the connection opens are delivered in
// order; the log itself is append-only so there is nothing to reconcile.
func ActivityStreamHandler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		defer conn.Close()

		userID, ok := wsUserID(conn)
		if !ok {
			return
		}

		db := database.GetDB()

		// Start after the newest existing entry.
		var lastID uint
		db.Model(&models.ActivityLogEntry{}).
			Where("user_id = ?", userID).
			Select("COALESCE(MAX(id), 0)").
			Scan(&lastID)

		ticker := time.NewTicker(3 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			var entries []models.ActivityLogEntry
			if err := db.Where("user_id = ? AND id > ?", userID, lastID).
				Order("id ASC").Find(&entries).Error; err != nil {
				log.Printf("activity stream: query failed for user %d: %v", userID, err)
				return
			}

			for _, entry := range entries {
				if err := conn.WriteJSON(entry); err != nil {
					return
				}
				lastID = entry.ID
			}
		}
	})
}

func wsUserID(conn *websocket.Conn) (uint, bool) {
	switch v := conn.Locals("userId").(type) {
	case float64:
		return uint(v), true
	case uint:
		return v, true
	default:
		return 0, false
	}
}
