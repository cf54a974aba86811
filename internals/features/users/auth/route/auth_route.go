// file: internals/features/users/auth/route/auth_route.go
package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/users/auth/controller"
	rateLimiter "gestionabsence_backend/internals/middlewares"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

// AuthRoutes mounts /api/auth. Login endpoints are public and rate limited.
func AuthRoutes(api fiber.Router, db *gorm.DB) {
	authController := controller.NewAuthController(db)

	baseAuth := api.Group("/auth")

	// 🔓 Public
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(), authController.LoginGoogle)

	// 🔐 Protected
	protected := authMiddleware.AuthMiddleware(db)
	baseAuth.Post("/logout", protected, authController.Logout)
	baseAuth.Get("/me", protected, authController.Me)
	baseAuth.Post("/change-password", protected, authController.ChangePassword)
}
