// handlers/projects.go
package handlers

import (
	"taskquest/database"
	"taskquest/middleware"
	"taskquest/models"

	"github.com/gofiber/fiber/v2"
)

type ProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func CreateProject(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name == "" {
		return c.Status(400).JSON(fiber.Map{"error": "Project name required"})
	}

	db := database.GetDB()
	project := models.Project{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     userID,
	}

	if err := db.Create(&project).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to create project"})
	}

	return c.Status(201).JSON(fiber.Map{"success": true, "project": project})
}

func GetProjects(c *fiber.Ctx) error {
	if _, err := middleware.GetUserID(c); err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var projects []models.Project
	if err := db.Where("is_archived = ?", false).Order("created_at DESC").Find(&projects).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch projects"})
	}

	return c.JSON(fiber.Map{"success": true, "projects": projects})
}

func GetProject(c *fiber.Ctx) error {
	db := database.GetDB()

	var project models.Project
	if err := db.Preload("Tasks").First(&project, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	return c.JSON(fiber.Map{"success": true, "project": project})
}

func UpdateProject(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var project models.Project
	if err := db.First(&project, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	if project.OwnerID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "Only the project owner can update it"})
	}

	var req ProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Name != "" {
		project.Name = req.Name
	}
	project.Description = req.Description

	if err := db.Save(&project).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to update project"})
	}

	return c.JSON(fiber.Map{"success": true, "project": project})
}

func ArchiveProject(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{"error": err.Error()})
	}

	db := database.GetDB()
	var project models.Project
	if err := db.First(&project, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"error": "Project not found"})
	}

	if project.OwnerID != userID {
		return c.Status(403).JSON(fiber.Map{"error": "Only the project owner can archive it"})
	}

	if err := db.Model(&project).Update("is_archived", true).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Failed to archive project"})
	}

	return c.JSON(fiber.Map{"success": true})
}
