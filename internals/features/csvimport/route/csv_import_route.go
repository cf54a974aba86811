package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/csvimport/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func CSVImportRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewCSVImportController(db, rc)

	g := api.Group("/csv",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRole(constants.RoleManager, "csv import"),
	)
	g.Post("/students", ctrl.ImportStudents)
	g.Post("/inscriptions/:groupId", ctrl.ImportInscriptions)
}
