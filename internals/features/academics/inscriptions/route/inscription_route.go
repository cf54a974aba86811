package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/academics/inscriptions/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func InscriptionRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewInscriptionController(db, rc)
	manager := authMiddleware.OnlyRole(constants.RoleManager, "inscription management")

	g := api.Group("/inscription", authMiddleware.AuthMiddleware(db))

	g.Get("/group/:groupId", ctrl.GetByGroup)
	g.Post("/many/:groupId", manager, ctrl.CreateMany)
	g.Delete("/:studentId/:groupId", manager, ctrl.Delete)
}
