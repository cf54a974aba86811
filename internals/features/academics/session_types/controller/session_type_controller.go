package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/academics/session_types/dto"
	"gestionabsence_backend/internals/features/academics/session_types/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type SessionTypeController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewSessionTypeController(db *gorm.DB, rc *cache.Cache) *SessionTypeController {
	return &SessionTypeController{DB: db, Cache: rc}
}

// GET /api/session_type/global-types
func (sc *SessionTypeController) GetGlobalTypes(c *fiber.Ctx) error {
	rows, err := service.ListGlobals(sc.DB)
	if err != nil {
		log.Printf("[ERROR] list global types: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve session types")
	}
	return helper.JsonOK(c, "ok", dto.ToGlobalTypeDTOs(rows))
}

// GET /api/session_type
func (sc *SessionTypeController) GetAll(c *fiber.Ctx) error {
	rows, err := service.List(sc.DB)
	if err != nil {
		log.Printf("[ERROR] list session types: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve session types")
	}
	return helper.JsonOK(c, "ok", dto.ToSessionTypeDTOs(rows))
}

// DELETE /api/session_type/all
func (sc *SessionTypeController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(sc.DB)
	if err != nil {
		log.Printf("[ERROR] delete session types: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete session types")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonDeleted(c, "Toutes les séances ont été supprimées", fiber.Map{"count": n})
}
