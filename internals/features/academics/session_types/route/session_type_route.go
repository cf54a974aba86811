package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/academics/session_types/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func SessionTypeRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewSessionTypeController(db, rc)

	g := api.Group("/session_type", authMiddleware.AuthMiddleware(db))

	g.Get("/global-types", ctrl.GetGlobalTypes)
	g.Get("/", ctrl.GetAll)
	g.Delete("/all", authMiddleware.OnlyRole(constants.RoleManager, "session type management"), ctrl.DeleteAll)
}
