package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/academics/course_materials/dto"
	"gestionabsence_backend/internals/features/academics/course_materials/service"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type CourseMaterialController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewCourseMaterialController(db *gorm.DB, rc *cache.Cache) *CourseMaterialController {
	return &CourseMaterialController{DB: db, Cache: rc}
}

func courseError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrCourseMaterialNotFound), errors.Is(err, semesterService.ErrSemesterNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrCourseNameTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNothingToSave):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// GET /api/course_material
func (cc *CourseMaterialController) GetAll(c *fiber.Ctx) error {
	rows, err := service.List(cc.DB)
	if err != nil {
		return courseError(c, err, "Failed to retrieve course materials")
	}
	return helper.JsonOK(c, "ok", dto.ToCourseMaterialDTOs(rows))
}

// GET /api/course_material/by-student/:id
func (cc *CourseMaterialController) GetByStudent(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListAbsentByStudent(cc.DB, id)
	if err != nil {
		return courseError(c, err, "Failed to retrieve course materials")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/course_material/by-semester/:id
func (cc *CourseMaterialController) GetBySemester(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListBySemester(cc.DB, id)
	if err != nil {
		return courseError(c, err, "Failed to retrieve course materials")
	}
	return helper.JsonOK(c, "ok", dto.ToCourseMaterialDTOs(rows))
}

// GET /api/course_material/presence/student/:id
func (cc *CourseMaterialController) GetStudentAbsences(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := presenceService.AbsencesByStudent(cc.DB, id)
	if err != nil {
		return courseError(c, err, "Failed to retrieve absences")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/course_material/:id
func (cc *CourseMaterialController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cm, err := service.Get(cc.DB, id)
	if err != nil {
		return courseError(c, err, "Failed to retrieve course material")
	}
	return helper.JsonOK(c, "ok", dto.ToCourseMaterialDTO(cm))
}

// POST /api/course_material
func (cc *CourseMaterialController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseMaterialRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	cm := req.ToModel()
	if err := service.Create(cc.DB, cm); err != nil {
		return courseError(c, err, "Failed to create course material")
	}
	return helper.JsonCreated(c, "Matière créée", dto.ToCourseMaterialDTO(cm))
}

// PUT /api/course_material/:id
func (cc *CourseMaterialController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateCourseMaterialRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	cm, err := service.Update(cc.DB, id, req.ToUpdates())
	if err != nil {
		return courseError(c, err, "Failed to update course material")
	}
	presenceService.InvalidateReports(c.UserContext(), cc.Cache)
	return helper.JsonUpdated(c, "Matière mise à jour", dto.ToCourseMaterialDTO(cm))
}

// DELETE /api/course_material/:id
func (cc *CourseMaterialController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	cm, err := service.Delete(cc.DB, id)
	if err != nil {
		return courseError(c, err, "Failed to delete course material")
	}
	presenceService.InvalidateReports(c.UserContext(), cc.Cache)
	return helper.JsonDeleted(c, "Matière supprimée", dto.ToCourseMaterialDTO(cm))
}

// DELETE /api/course_material/all
func (cc *CourseMaterialController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(cc.DB)
	if err != nil {
		return courseError(c, err, "Failed to delete course materials")
	}
	presenceService.InvalidateReports(c.UserContext(), cc.Cache)
	return helper.JsonDeleted(c, "Toutes les matières ont été supprimées", fiber.Map{"count": n})
}
