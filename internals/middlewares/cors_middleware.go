package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"gestionabsence_backend/internals/configs"
)

var defaultAllowOrigins = []string{
	"http://localhost:5173",
	"http://localhost:4200",
	"http://127.0.0.1:5173",
}

// CorsMiddleware reads CORS_ALLOW_ORIGINS (comma separated) or uses local dev origins.
func CorsMiddleware() fiber.Handler {
	origins := defaultAllowOrigins
	if raw := configs.GetEnv("CORS_ALLOW_ORIGINS"); raw != "" {
		origins = nil
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ", "),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		ExposeHeaders:    "X-Request-ID",
		AllowCredentials: true,
	})
}
