package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/academics/students/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func StudentRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewStudentController(db, rc)
	manager := authMiddleware.OnlyRole(constants.RoleManager, "student management")

	g := api.Group("/student", authMiddleware.AuthMiddleware(db))

	g.Get("/", ctrl.GetAll)
	g.Get("/by-group/:id", ctrl.GetByGroup)
	g.Get("/by-group-other/:id", ctrl.GetByOtherGroups)
	g.Get("/by-course_material/:id", ctrl.GetByCourseMaterial)
	g.Get("/presence/course/:id", ctrl.GetCourseAbsences)
	g.Get("/:id", ctrl.GetByID)

	g.Post("/", manager, ctrl.Create)
	g.Post("/many/:semester_id", manager, ctrl.CreateMany)
	g.Put("/:id", manager, ctrl.Update)
	g.Delete("/:id", manager, ctrl.Delete)
	g.Delete("/", manager, ctrl.DeleteAll)
}
