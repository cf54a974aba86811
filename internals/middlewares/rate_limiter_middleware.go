package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"gestionabsence_backend/internals/configs"
)

func ipLimiter(max int, message string) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string { return c.IP() },
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": message})
		},
	})
}

// GlobalRateLimiter caps every client IP at RATE_LIMIT_PER_MINUTE.
func GlobalRateLimiter() fiber.Handler {
	return ipLimiter(configs.GetInt("RATE_LIMIT_PER_MINUTE", 300),
		"❌ Trop de requêtes, réessayez plus tard.")
}

// LoginRateLimiter is the stricter limit of the login routes.
func LoginRateLimiter() fiber.Handler {
	return ipLimiter(configs.GetInt("LOGIN_RATE_LIMIT_PER_MINUTE", 10),
		"❌ Trop de tentatives de connexion, réessayez dans une minute.")
}
