package controller

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/academics/groups/dto"
	"gestionabsence_backend/internals/features/academics/groups/service"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type GroupController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewGroupController(db *gorm.DB, rc *cache.Cache) *GroupController {
	return &GroupController{DB: db, Cache: rc}
}

func groupError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrGroupNotFound), errors.Is(err, semesterService.ErrSemesterNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNothingToSave):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case helper.IsUniqueViolation(err):
		return helper.JsonError(c, fiber.StatusConflict, "Ce groupe existe déjà")
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// GET /api/group
func (gc *GroupController) GetAll(c *fiber.Ctx) error {
	rows, err := service.List(gc.DB)
	if err != nil {
		return groupError(c, err, "Failed to retrieve groups")
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDTOs(rows))
}

// GET /api/group/by-semester/:year
func (gc *GroupController) GetByYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1 || year > 3 {
		return helper.JsonError(c, fiber.StatusBadRequest, "year must be 1, 2 or 3")
	}
	rows, err := service.ListByYear(gc.DB, year)
	if err != nil {
		return groupError(c, err, "Failed to retrieve groups")
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDTOs(rows))
}

// GET /api/group/by-student/:id
func (gc *GroupController) GetByStudent(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListByStudent(gc.DB, id)
	if err != nil {
		return groupError(c, err, "Failed to retrieve groups")
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDTOs(rows))
}

// GET /api/group/:id
func (gc *GroupController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	g, err := service.Get(gc.DB, id)
	if err != nil {
		return groupError(c, err, "Failed to retrieve group")
	}
	return helper.JsonOK(c, "ok", dto.ToGroupDTO(g))
}

// POST /api/group
func (gc *GroupController) Create(c *fiber.Ctx) error {
	var req dto.CreateGroupRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	g := req.ToModel()
	if err := service.Create(gc.DB, g); err != nil {
		return groupError(c, err, "Failed to create group")
	}
	return helper.JsonCreated(c, "Groupe créé", dto.ToGroupDTO(g))
}

// POST /api/group/from-semester-name
func (gc *GroupController) CreateFromSemesterName(c *fiber.Ctx) error {
	var req dto.CreateGroupBySemesterNameRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	g, err := service.CreateFromSemesterName(gc.DB, req.SemesterName, req.Name)
	if err != nil {
		return groupError(c, err, "Failed to create group")
	}
	return helper.JsonCreated(c, "Groupe créé", dto.ToGroupDTO(g))
}

// PUT /api/group/:id
func (gc *GroupController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateGroupRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	g, err := service.Update(gc.DB, id, req.ToUpdates())
	if err != nil {
		return groupError(c, err, "Failed to update group")
	}
	presenceService.InvalidateReports(c.UserContext(), gc.Cache)
	return helper.JsonUpdated(c, "Groupe mis à jour", dto.ToGroupDTO(g))
}

// DELETE /api/group/:id
func (gc *GroupController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	g, err := service.Delete(gc.DB, id)
	if err != nil {
		return groupError(c, err, "Failed to delete group")
	}
	presenceService.InvalidateReports(c.UserContext(), gc.Cache)
	return helper.JsonDeleted(c, "Groupe supprimé", dto.ToGroupDTO(g))
}

// DELETE /api/group
func (gc *GroupController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(gc.DB)
	if err != nil {
		return groupError(c, err, "Failed to delete groups")
	}
	presenceService.InvalidateReports(c.UserContext(), gc.Cache)
	return helper.JsonDeleted(c, "Tous les groupes ont été supprimés", fiber.Map{"count": n})
}
