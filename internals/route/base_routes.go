package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/configs"
	database "gestionabsence_backend/internals/databases"
)

type healthReport struct {
	Status        string `json:"status"`
	Database      string `json:"database"`
	ServerTime    string `json:"server_time"`
	UptimeSeconds int    `json:"uptime_seconds"`
	Environment   string `json:"environment,omitempty"`
}

// BaseRoutes mounts the unauthenticated banner and health check.
func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Gestion des absences API 🚀")
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		report := healthReport{
			Status:        "OK",
			Database:      "Connected",
			ServerTime:    time.Now().Format(time.RFC3339),
			UptimeSeconds: int(time.Since(startTime).Seconds()),
			Environment:   configs.GetEnv("RAILWAY_ENVIRONMENT"),
		}
		if err := database.Ping(db); err != nil {
			report.Status = "DOWN"
			report.Database = "Database connection error"
			return c.Status(fiber.StatusServiceUnavailable).JSON(report)
		}
		return c.JSON(report)
	})
}
