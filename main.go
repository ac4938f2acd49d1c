package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"taskquest/database"
	"taskquest/gamification"
	"taskquest/handlers"
	"taskquest/handlers/admin"
	"taskquest/middleware"
	"taskquest/services"
	"taskquest/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	validateEnvironment()

	// Initialize database
	database.InitDB()

	// Initialize background streak sweep
	services.InitSweepService()
	services.GetSweepService().Start()
	defer services.GetSweepService().Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		BodyLimit:    1 * 1024 * 1024, // 1MB
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))

	// CORS configuration
	corsOrigins := os.Getenv("CORS_ORIGINS")
	if corsOrigins == "" {
		corsOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	// Apply rate limiting to all routes
	app.Use(middleware.FiberRateLimitMiddleware())

	// API Routes
	api := app.Group("/api")

	// Auth routes with stricter rate limiting
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.FiberAuthRateLimitMiddleware())
	authGroup.Post("/guest", handlers.GuestLogin)
	authGroup.Post("/login", handlers.Login)
	authGroup.Post("/register", handlers.Register)

	// Project routes
	projectGroup := api.Group("/projects")
	projectGroup.Use(middleware.AuthMiddleware)
	projectGroup.Post("/", handlers.CreateProject)
	projectGroup.Get("/", handlers.GetProjects)
	projectGroup.Get("/:id", handlers.GetProject)
	projectGroup.Put("/:id", handlers.UpdateProject)
	projectGroup.Delete("/:id", handlers.ArchiveProject)

	// Task routes
	taskGroup := api.Group("/tasks")
	taskGroup.Use(middleware.AuthMiddleware)
	taskGroup.Post("/", handlers.CreateTask)
	taskGroup.Get("/", handlers.GetTasks)
	taskGroup.Get("/:id", handlers.GetTask)
	taskGroup.Put("/:id", handlers.UpdateTask)
	taskGroup.Patch("/:id/status", handlers.UpdateTaskStatus)
	taskGroup.Delete("/:id", handlers.DeleteTask)

	// Progression routes
	progressionGroup := api.Group("/progression")
	progressionGroup.Use(middleware.AuthMiddleware)
	progressionGroup.Get("/", handlers.GetProgression)
	progressionGroup.Get("/achievements", handlers.GetUserAchievements)

	// Activity feed routes
	activityGroup := api.Group("/activity")
	activityGroup.Get("/", middleware.AuthMiddleware, handlers.GetActivityFeed)
	activityGroup.Get("/stream", middleware.WebSocketAuthMiddleware, handlers.ActivityStreamHandler())

	// Leaderboard routes
	leaderboardGroup := api.Group("/leaderboard")
	leaderboardGroup.Get("/", handlers.GetLeaderboard)
	leaderboardGroup.Get("/user/:id", handlers.GetUserRank)

	// Admin routes
	adminGroup := api.Group("/admin")
	adminGroup.Post("/login", admin.Login)
	adminGroup.Post("/logout", admin.Logout)

	// Protected admin routes
	adminProtected := adminGroup.Group("")
	adminProtected.Use(middleware.AdminAuthMiddleware)
	adminProtected.Get("/verify", admin.VerifyToken)
	adminProtected.Get("/users", admin.GetUsers)
	adminProtected.Get("/users/:id", admin.GetUser)
	adminProtected.Post("/users/:id/ban", admin.BanUser)
	adminProtected.Post("/users/:id/points", admin.AdjustUserPoints)
	adminProtected.Post("/sweep", admin.RunStreakSweep)

	// Admin tier management
	adminProtected.Get("/tiers", admin.GetTiers)
	adminProtected.Post("/tiers", admin.CreateTier)
	adminProtected.Put("/tiers/:id", admin.UpdateTier)
	adminProtected.Delete("/tiers/:id", admin.DeleteTier)

	// Admin achievement management
	adminProtected.Get("/achievements", admin.GetAchievements)
	adminProtected.Post("/achievements", admin.CreateAchievement)
	adminProtected.Put("/achievements/:id", admin.UpdateAchievement)
	adminProtected.Delete("/achievements/:id", admin.DeleteAchievement)

	// Health check endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
			"version":   "1.0.0",
		})
	})

	// Start the internal ops server (health + cron-facing sweep trigger)
	opsPort := getEnv("OPS_PORT", "4000")
	go func() {
		log.Printf("🔧 Ops server starting on port %s", opsPort)
		if err := http.ListenAndServe(":"+opsPort, opsMux()); err != nil && err != http.ErrServerClosed {
			log.Fatal("Ops server failed:", err)
		}
	}()

	// Start Fiber HTTP/REST server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 HTTP server starting on port %s", port)
	log.Printf("📊 Environment: %s", getEnv("APP_ENV", "development"))

	if err := app.Listen(":" + port); err != nil {
		log.Fatal("Failed to start HTTP server:", err)
	}
}

// opsMux builds the internal net/http surface. The sweep endpoint is what
// an external cron calls once a day.
func opsMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		_ = utils.JSON(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Unix(),
		})
	})

	sweep := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		asOf := time.Now().UTC()
		if raw := utils.Query(r, "as_of"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				_ = utils.JSONError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
				return
			}
			asOf = parsed
		}

		engine := gamification.NewEngine(database.GetDB())
		reset, err := engine.RunDailyStreakSweep(asOf)
		if err != nil {
			_ = utils.JSONError(w, http.StatusInternalServerError, "Sweep failed")
			return
		}

		_ = utils.JSON(w, http.StatusOK, map[string]interface{}{
			"success":     true,
			"users_reset": reset,
		})
	})
	mux.Handle("POST /internal/sweep", middleware.InternalAuthMiddleware(sweep))

	return mux
}

// validateEnvironment checks for required environment variables
func validateEnvironment() {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("FATAL: JWT_SECRET environment variable must be set. Generate one with: openssl rand -base64 64")
	}
	if len(jwtSecret) < 32 {
		log.Fatal("FATAL: JWT_SECRET must be at least 32 characters long")
	}

	if os.Getenv("APP_ENV") == "production" {
		if os.Getenv("OPS_TOKEN") == "" {
			log.Println("WARNING: OPS_TOKEN not set; internal sweep endpoint will reject all calls")
		}
		corsOrigins := os.Getenv("CORS_ORIGINS")
		if corsOrigins == "" || corsOrigins == "http://localhost:3000" {
			log.Println("WARNING: CORS_ORIGINS not properly configured for production")
		}
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Don't expose internal errors in production
	if os.Getenv("APP_ENV") == "production" && code == 500 {
		message = "An error occurred. Please try again later."
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
