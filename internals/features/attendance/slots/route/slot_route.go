package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/attendance/slots/controller"
	"gestionabsence_backend/internals/helpers/cache"
	authMiddleware "gestionabsence_backend/internals/middlewares/auth"
)

func SlotRoutes(api fiber.Router, db *gorm.DB, rc *cache.Cache) {
	ctrl := controller.NewSlotController(db, rc)
	professor := authMiddleware.OnlyRole(constants.RoleProfessor, "slot calls")
	manager := authMiddleware.OnlyRole(constants.RoleManager, "slot management")

	g := api.Group("/slot", authMiddleware.AuthMiddleware(db))

	// static segments first
	g.Get("/week-slots", ctrl.GetWeek)
	g.Get("/recent-calls", professor, ctrl.GetRecentCalls)
	g.Get("/my-slots/:date", professor, ctrl.GetMine)
	g.Get("/by-date/:date", ctrl.GetByDate)
	g.Post("/by-session", professor, ctrl.UpsertBySession)
	g.Post("/search", professor, ctrl.Search)

	g.Get("/", ctrl.GetAll)
	g.Get("/:id", ctrl.GetByID)

	g.Put("/:id", manager, ctrl.Update)
	g.Delete("/:id", manager, ctrl.Delete)
	g.Delete("/", manager, ctrl.DeleteAll)
}
