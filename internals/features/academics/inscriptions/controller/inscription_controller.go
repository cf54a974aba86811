package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	"gestionabsence_backend/internals/features/academics/inscriptions/dto"
	"gestionabsence_backend/internals/features/academics/inscriptions/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type InscriptionController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewInscriptionController(db *gorm.DB, rc *cache.Cache) *InscriptionController {
	return &InscriptionController{DB: db, Cache: rc}
}

func inscriptionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrInscriptionNotFound), errors.Is(err, groupService.ErrGroupNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// GET /api/inscription/group/:groupId
func (ic *InscriptionController) GetByGroup(c *fiber.Ctx) error {
	groupID, err := helper.ParseIDParam(c, "groupId")
	if err != nil {
		return err
	}
	rows, err := service.ListByGroup(ic.DB, groupID)
	if err != nil {
		return inscriptionError(c, err, "Failed to retrieve inscriptions")
	}
	return helper.JsonOK(c, "ok", dto.ToInscriptionDTOs(rows))
}

// POST /api/inscription/many/:groupId
func (ic *InscriptionController) CreateMany(c *fiber.Ctx) error {
	groupID, err := helper.ParseIDParam(c, "groupId")
	if err != nil {
		return err
	}
	ids, err := helper.ParseIDList(c)
	if err != nil {
		return err
	}
	n, err := service.EnrollMany(ic.DB, groupID, ids)
	if err != nil {
		return inscriptionError(c, err, "Failed to create inscriptions")
	}
	presenceService.InvalidateReports(c.UserContext(), ic.Cache)
	return helper.JsonCreated(c, "Inscriptions enregistrées", fiber.Map{"count": n})
}

// DELETE /api/inscription/:studentId/:groupId
func (ic *InscriptionController) Delete(c *fiber.Ctx) error {
	studentID, err := helper.ParseIDParam(c, "studentId")
	if err != nil {
		return err
	}
	groupID, err := helper.ParseIDParam(c, "groupId")
	if err != nil {
		return err
	}
	if err := service.Delete(ic.DB, studentID, groupID); err != nil {
		return inscriptionError(c, err, "Failed to delete inscription")
	}
	presenceService.InvalidateReports(c.UserContext(), ic.Cache)
	return helper.JsonDeleted(c, "Inscription supprimée", fiber.Map{"student_id": studentID, "group_id": groupID})
}
