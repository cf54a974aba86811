package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/promotion/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func PromotionRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewPromotionController(db, rc)

	g := api.Group("/promotion",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRole(constants.RoleManager, "promotion"),
	)

	g.Post("/semester/:year/:semester", ctrl.PromoteSemester)
	g.Post("/year", ctrl.PromoteYear)
	g.Get("/history", ctrl.History)
}
