// handlers/tasks.go
package handlers

import (
	"time"

	"taskquest/database"
	"taskquest/gamification"
	"taskquest/middleware"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type TaskRequest struct {
	ProjectID   uint   `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	AssigneeID  *uint  `json:"assignee_id"`
	Points      int    `json:"points"`
}

type TaskStatusRequest struct {
	Status string `json:"status"`
}

func validTaskStatus(s string) bool {
	switch s {
	case models.TaskStatusTodo, models.TaskStatusInProgress, models.TaskStatusDone:
		return true
	}
	return false
}

func CreateTask(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Task title required"})
	}
	if req.Points < 0 {
		return c.Status(400).JSON(fiber.Map{"error": "Task points must not be negative"})
	}

	db := database.GetDB()

	var project models.Project
	if err := db.First(&project, req.ProjectID).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	task := models.Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Points:      req.Points,
		Status:      models.TaskStatusTodo,
	}

	if err := db.Create(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create task"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "task": task})
}

func GetTasks(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	query := db.Model(&models.Task{})

	if projectID := c.Query("project_id"); projectID != "" {
		query = query.Where("project_id = ?", projectID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if assignee := c.Query("assignee_id"); assignee != "" {
		query = query.Where("assignee_id = ?", assignee)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{"success": true, "tasks": tasks})
}

func GetTask(c *fiber.Ctx) error {
	db := database.GetDB()

	var task models.Task
	if err := db.Preload("Assignee").First(&task, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

func UpdateTask(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Title != "" {
		task.Title = req.Title
	}
	task.Description = req.Description
	task.AssigneeID = req.AssigneeID
	if req.Points >= 0 {
		task.Points = req.Points
	}

	if err := db.Save(&task).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task"})
	}

	return c.JSON(fiber.Map{"success": true, "task": task})
}

// UpdateTaskStatus moves a task between statuses. The first transition into
// "done" fires the progression engine for the assignee; the task's
// points_awarded_at stamp guarantees single-fire, so a task bounced out of
// "done" and back in does not award twice. Leaving "done" never claws back
// points already awarded.
func UpdateTaskStatus(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req TaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if !validTaskStatus(req.Status) {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid task status"})
	}

	db := database.GetDB()
	var task models.Task
	if err := db.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Task not found"})
	}

	if task.Status == req.Status {
		return c.JSON(fiber.Map{"success": true, "task": task})
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.TaskStatusDone {
		updates["completed_at"] = now
	}

	// The status flip, the award stamp, and the points run in one
	// transaction. The stamp is a conditional write, so of two concurrent
	// transitions into "done" exactly one claims it and awards.
	var result *gamification.Result
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return err
		}
		if req.Status != models.TaskStatusDone || task.AssigneeID == nil {
			return nil
		}

		claimed, err := claimAwardStamp(tx, task.ID, now)
		if err != nil || !claimed {
			return err
		}

		result, err = gamification.NewEngine(tx).OnTaskCompleted(*task.AssigneeID, task.Points)
		return err
	})
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update task status"})
	}

	response := fiber.Map{"success": true, "task": task}
	if result != nil {
		response["progression"] = result
	}

	return c.JSON(response)
}

// claimAwardStamp sets points_awarded_at if it is still unset. The
// conditional WHERE makes the claim first-writer-wins: a task already
// stamped, by this request or a concurrent one, is not claimed again.
func claimAwardStamp(tx *gorm.DB, taskID uint, at time.Time) (bool, error) {
	res := tx.Model(&models.Task{}).
		Where("id = ? AND points_awarded_at IS NULL", taskID).
		UpdateColumn("points_awarded_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func DeleteTask(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	if err := db.Delete(&models.Task{}, c.Params("id")).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to delete task"})
	}

	return c.JSON(fiber.Map{"success": true})
}
