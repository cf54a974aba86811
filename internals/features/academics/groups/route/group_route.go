package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/academics/groups/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func GroupRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewGroupController(db, rc)
	manager := authMiddleware.OnlyRole(constants.RoleManager, "group management")

	g := api.Group("/group", authMiddleware.AuthMiddleware(db))

	g.Get("/", ctrl.GetAll)
	g.Get("/by-semester/:year", ctrl.GetByYear)
	g.Get("/by-student/:id", ctrl.GetByStudent)
	g.Get("/:id", ctrl.GetByID)

	g.Post("/", manager, ctrl.Create)
	g.Post("/from-semester-name", manager, ctrl.CreateFromSemesterName)
	g.Put("/:id", manager, ctrl.Update)
	g.Delete("/:id", manager, ctrl.Delete)
	g.Delete("/", manager, ctrl.DeleteAll)
}
