package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/academics/course_materials/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func CourseMaterialRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewCourseMaterialController(db, rc)
	manager := authMiddleware.OnlyRole(constants.RoleManager, "course material management")

	g := api.Group("/course_material", authMiddleware.AuthMiddleware(db))

	g.Get("/", ctrl.GetAll)
	g.Get("/by-student/:id", ctrl.GetByStudent)
	g.Get("/by-semester/:id", ctrl.GetBySemester)
	g.Get("/presence/student/:id", ctrl.GetStudentAbsences)
	g.Get("/:id", ctrl.GetByID)

	g.Post("/", manager, ctrl.Create)
	g.Put("/:id", manager, ctrl.Update)
	g.Delete("/all", manager, ctrl.DeleteAll)
	g.Delete("/:id", manager, ctrl.Delete)
}
