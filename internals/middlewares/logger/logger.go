package logger

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"gestionabsence_backend/internals/configs"
)

const accessFormat = "[${time}] ${ip} ${locals:reqid} - ${method} ${path} - ${status} - ${latency}\n"

// LoggerMiddleware is the access log, timestamped in APP_TIMEZONE.
func LoggerMiddleware() fiber.Handler {
	return logger.New(logger.Config{
		Format:     accessFormat,
		TimeFormat: "02/01/2006 15:04:05",
		TimeZone:   configs.GetEnv("APP_TIMEZONE", "Europe/Paris"),
	})
}
