package controller

import (
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	sessionTypeService "gestionabsence_backend/internals/features/academics/session_types/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	"gestionabsence_backend/internals/features/attendance/slots/dto"
	"gestionabsence_backend/internals/features/attendance/slots/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/dbtime"
)

type SlotController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewSlotController(db *gorm.DB, rc *cache.Cache) *SlotController {
	return &SlotController{DB: db, Cache: rc}
}

func slotError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, groupService.ErrGroupNotFound),
		errors.Is(err, sessionTypeService.ErrGlobalTypeNotFound),
		errors.Is(err, sessionTypeService.ErrSessionTypeNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidTimes),
		errors.Is(err, service.ErrNothingToSave):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Un créneau identique existe déjà")
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

func parseDayParam(c *fiber.Ctx) (time.Time, error) {
	day, err := dbtime.ParseDay(c.Params("date"))
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return day, nil
}

func lookupFrom(req *dto.SessionSlotRequest) (service.SessionLookup, error) {
	day, err := dbtime.ParseDay(req.Date)
	if err != nil {
		return service.SessionLookup{}, service.ErrInvalidDate
	}
	return service.SessionLookup{
		GroupID:             req.GroupID,
		CourseName:          strings.TrimSpace(req.CourseName),
		SessionTypeGlobalID: req.SessionTypeGlobalID,
		Date:                day,
		StartTime:           req.StartTime,
		EndTime:             req.EndTime,
	}, nil
}

// GET /api/slot
func (sc *SlotController) GetAll(c *fiber.Ctx) error {
	rows, err := service.List(sc.DB)
	if err != nil {
		return slotError(c, err, "Failed to retrieve slots")
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTOs(rows))
}

// GET /api/slot/:id
func (sc *SlotController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	s, err := service.Get(sc.DB, id)
	if err != nil {
		return slotError(c, err, "Failed to retrieve slot")
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTO(s))
}

// GET /api/slot/by-date/:date
func (sc *SlotController) GetByDate(c *fiber.Ctx) error {
	day, err := parseDayParam(c)
	if err != nil {
		return err
	}
	rows, err := service.ListByDay(sc.DB, day, 0)
	if err != nil {
		return slotError(c, err, "Failed to retrieve slots")
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTOs(rows))
}

// GET /api/slot/week-slots
func (sc *SlotController) GetWeek(c *fiber.Ctx) error {
	rows, err := service.ListWeek(sc.DB, time.Now())
	if err != nil {
		return slotError(c, err, "Failed to retrieve slots")
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTOs(rows))
}

// GET /api/slot/my-slots/:date
func (sc *SlotController) GetMine(c *fiber.Ctx) error {
	professorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	day, err := parseDayParam(c)
	if err != nil {
		return err
	}
	rows, err := service.ListByDay(sc.DB, day, professorID)
	if err != nil {
		return slotError(c, err, "Failed to retrieve slots")
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTOs(rows))
}

// GET /api/slot/recent-calls?dayOfWeek=0..6
func (sc *SlotController) GetRecentCalls(c *fiber.Ctx) error {
	professorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var dow *int
	if raw := strings.TrimSpace(c.Query("dayOfWeek")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 || n > 6 {
			return helper.JsonError(c, fiber.StatusBadRequest, "dayOfWeek must be between 0 (Sunday) and 6")
		}
		dow = &n
	}
	rows, err := service.RecentCalls(sc.DB, professorID, dow)
	if err != nil {
		return slotError(c, err, "Failed to retrieve recent calls")
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/slot/by-session
func (sc *SlotController) UpsertBySession(c *fiber.Ctx) error {
	professorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.SessionSlotRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	in, err := lookupFrom(&req)
	if err != nil {
		return slotError(c, err, "Failed to save slot")
	}
	s, created, err := service.UpsertBySession(sc.DB, professorID, in)
	if err != nil {
		return slotError(c, err, "Failed to save slot")
	}
	if created {
		presenceService.InvalidateReports(c.UserContext(), sc.Cache)
		return helper.JsonCreated(c, "Créneau créé", dto.ToSlotDTO(s))
	}
	return helper.JsonOK(c, "Créneau existant", dto.ToSlotDTO(s))
}

// POST /api/slot/search
func (sc *SlotController) Search(c *fiber.Ctx) error {
	professorID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.SessionSlotRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	in, err := lookupFrom(&req)
	if err != nil {
		return slotError(c, err, "Failed to search slot")
	}
	s, err := service.SearchBySession(sc.DB, professorID, in)
	if err != nil {
		return slotError(c, err, "Failed to search slot")
	}
	if s == nil {
		return helper.JsonOK(c, "Aucun créneau", nil)
	}
	return helper.JsonOK(c, "ok", dto.ToSlotDTO(s))
}

// PUT /api/slot/:id
func (sc *SlotController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateSlotRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	patch := service.SlotPatch{
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		GroupID:       req.GroupID,
		SessionTypeID: req.SessionTypeID,
	}
	if req.Date != nil {
		day, err := dbtime.ParseDay(*req.Date)
		if err != nil {
			return slotError(c, service.ErrInvalidDate, "Failed to update slot")
		}
		patch.Date = &day
	}
	s, err := service.Update(sc.DB, id, patch)
	if err != nil {
		return slotError(c, err, "Failed to update slot")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonUpdated(c, "Créneau mis à jour", dto.ToSlotDTO(s))
}

// DELETE /api/slot/:id
func (sc *SlotController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	s, err := service.Delete(sc.DB, id)
	if err != nil {
		return slotError(c, err, "Failed to delete slot")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonDeleted(c, "Créneau supprimé", dto.ToSlotDTO(s))
}

// DELETE /api/slot
func (sc *SlotController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(sc.DB)
	if err != nil {
		return slotError(c, err, "Failed to delete slots")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonDeleted(c, "Tous les créneaux ont été supprimés", fiber.Map{"count": n})
}
