package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/academics/semesters/service"
	helper "gestionabsence_backend/internals/helpers"
)

type SemesterController struct {
	DB *gorm.DB
}

func NewSemesterController(db *gorm.DB) *SemesterController {
	return &SemesterController{DB: db}
}

// GET /api/semester
func (sc *SemesterController) GetAll(c *fiber.Ctx) error {
	rows, err := service.List(sc.DB)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve semesters")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/semester/:id
func (sc *SemesterController) GetByID(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	s, err := service.Get(sc.DB, id)
	if err != nil {
		if errors.Is(err, service.ErrSemesterNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve semester")
	}
	return helper.JsonOK(c, "ok", s)
}
