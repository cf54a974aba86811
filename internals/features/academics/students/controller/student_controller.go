package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	courseService "gestionabsence_backend/internals/features/academics/course_materials/service"
	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	semesterService "gestionabsence_backend/internals/features/academics/semesters/service"
	"gestionabsence_backend/internals/features/academics/students/dto"
	"gestionabsence_backend/internals/features/academics/students/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	userService "gestionabsence_backend/internals/features/users/user/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type StudentController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewStudentController(db *gorm.DB, rc *cache.Cache) *StudentController {
	return &StudentController{DB: db, Cache: rc}
}

func studentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, groupService.ErrGroupNotFound),
		errors.Is(err, semesterService.ErrSemesterNotFound),
		errors.Is(err, courseService.ErrCourseMaterialNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStudentNumberUsed), errors.Is(err, userService.ErrEmailTaken):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNothingToSave),
		errors.Is(err, service.ErrEmptyImport),
		errors.Is(err, service.ErrInvalidSemester):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

// GET /api/student?page=&per_page=&q=
func (sc *StudentController) GetAll(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 500)
	rows, total, err := service.List(sc.DB, c.Query("q"), p)
	if err != nil {
		return studentError(c, err, "Failed to retrieve students")
	}
	return helper.JsonList(c, "ok", dto.ToStudentDTOs(rows), helper.BuildPagination(total, p, len(rows)))
}

// GET /api/student/:id
func (sc *StudentController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	s, err := service.Get(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to retrieve student")
	}
	return helper.JsonOK(c, "ok", dto.ToStudentDTO(s))
}

// GET /api/student/by-group/:id
func (sc *StudentController) GetByGroup(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListByGroup(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to retrieve students")
	}
	return helper.JsonOK(c, "ok", dto.ToStudentDTOs(rows))
}

// GET /api/student/by-group-other/:id
func (sc *StudentController) GetByOtherGroups(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListByOtherGroups(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to retrieve students")
	}
	return helper.JsonOK(c, "ok", dto.ToOtherGroupStudentDTOs(rows))
}

// GET /api/student/by-course_material/:id
func (sc *StudentController) GetByCourseMaterial(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := service.ListByCourseMaterial(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to retrieve students")
	}
	return helper.JsonOK(c, "ok", dto.ToStudentDTOs(rows))
}

// GET /api/student/presence/course/:id
func (sc *StudentController) GetCourseAbsences(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	rows, err := presenceService.AbsencesByCourse(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to retrieve absences")
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/student
func (sc *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	s := req.ToModel()
	if err := service.Create(sc.DB, s); err != nil {
		return studentError(c, err, "Failed to create student")
	}
	return helper.JsonCreated(c, "Étudiant créé", dto.ToStudentDTO(s))
}

// POST /api/student/many/:semester_id  body: [{student_number, name}]
func (sc *StudentController) CreateMany(c *fiber.Ctx) error {
	semesterID, err := helper.ParseIDParam(c, "semester_id")
	if err != nil {
		return err
	}
	var reqs []dto.ImportStudentRequest
	if err := c.BodyParser(&reqs); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Body must be an array of students")
	}
	if err := helper.Validator().Var(reqs, "required,min=1,dive"); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	res, err := service.ImportIntoSemester(sc.DB, semesterID, dto.ToRows(reqs))
	if err != nil {
		return studentError(c, err, "Failed to import students")
	}
	log.Printf("[INFO] student import semester=%d created=%d updated=%d group=%s",
		semesterID, res.Created, res.Updated, res.Group.Name)
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonCreated(c, "Étudiants importés", dto.ToImportResultDTO(res))
}

// PUT /api/student/:id
func (sc *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateStudentRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	s, err := service.Update(sc.DB, id, req.ToUpdates())
	if err != nil {
		return studentError(c, err, "Failed to update student")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonUpdated(c, "Étudiant mis à jour", dto.ToStudentDTO(s))
}

// DELETE /api/student/:id
func (sc *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	s, err := service.Delete(sc.DB, id)
	if err != nil {
		return studentError(c, err, "Failed to delete student")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonDeleted(c, "Étudiant supprimé", dto.ToStudentDTO(s))
}

// DELETE /api/student
func (sc *StudentController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(sc.DB)
	if err != nil {
		return studentError(c, err, "Failed to delete students")
	}
	presenceService.InvalidateReports(c.UserContext(), sc.Cache)
	return helper.JsonDeleted(c, "Tous les étudiants ont été supprimés", fiber.Map{"count": n})
}
