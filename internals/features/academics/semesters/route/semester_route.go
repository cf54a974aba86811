package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/academics/semesters/controller"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func SemesterRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := controller.NewSemesterController(db)

	g := api.Group("/semester", authMiddleware.AuthMiddleware(db))
	g.Get("/", ctrl.GetAll)
	g.Get("/:id", ctrl.GetByID)
}
