package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/attendance/presences/controller"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/storage"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

// PresenceRoutes: static segments are registered before /:student_id/:slot_id.
func PresenceRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache, store storage.BlobStore) {
	ctrl := controller.NewPresenceController(db, rc, store)

	professor := authMiddleware.OnlyRole(constants.RoleProfessor, "the call sheet")
	manager := authMiddleware.OnlyRole(constants.RoleManager, "absence administration")
	student := authMiddleware.OnlyRole(constants.RoleStudent, "your own absences")

	p := api.Group("/presence", authMiddleware.AuthMiddleware(db))

	// 🎓 Etudiant
	p.Get("/me", student, ctrl.GetMine)
	p.Post("/justify/:slot_id",
		authMiddleware.OnlyRolesSlice(constants.RoleStudent, constants.RoleManager),
		ctrl.Justify)

	// 👨‍🏫 Professeur
	p.Get("/slot/:slot_id", professor, ctrl.GetBySlot)
	p.Put("/update/:slot_id", professor, ctrl.ReplaceForSlot)
	p.Post("/many/:slot_id", professor, ctrl.CreateMany)
	p.Post("/", professor, ctrl.Create)

	// 🔐 Any authenticated user
	p.Get("/by-year/:year", ctrl.GetByYear)
	p.Get("/:student_id/:slot_id/justification", ctrl.DownloadJustification)
	p.Get("/:student_id/:slot_id", ctrl.GetOne)
	p.Get("/", ctrl.GetAll)

	// 🛠️ Gestionnaire
	p.Put("/:student_id/:slot_id", manager, ctrl.SetJustified)
	p.Delete("/:student_id/:slot_id", manager, ctrl.Delete)
	p.Delete("/", manager, ctrl.DeleteAll)
}
