package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	userController "gestionabsence_backend/internals/features/users/user/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

// UserRoutes: /api/users, GESTIONNAIRE only.
func UserRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := userController.NewUserController(db, rc)

	users := api.Group("/users",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRole(constants.RoleManager, "user management"),
	)
	users.Get("/professors", ctrl.GetProfessors)
	users.Post("/professor", ctrl.CreateProfessor)
	users.Delete("/professor/:id", ctrl.DeleteProfessor)
}
