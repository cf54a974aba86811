package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	"gestionabsence_backend/internals/features/users/user/dto"
	"gestionabsence_backend/internals/features/users/user/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type UserController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewUserController(db *gorm.DB, rc *cache.Cache) *UserController {
	return &UserController{DB: db, Cache: rc}
}

// GET /api/users/professors
func (uc *UserController) GetProfessors(c *fiber.Ctx) error {
	users, err := service.ListProfessors(uc.DB)
	if err != nil {
		log.Println("[ERROR] Failed to fetch professors:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve professors")
	}
	return helper.JsonOK(c, "Professors fetched successfully", dto.ToProfessorDTOs(users))
}

// POST /api/users/professor
func (uc *UserController) CreateProfessor(c *fiber.Ctx) error {
	var req dto.CreateProfessorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	req.Normalize()
	if err := helper.Validator().Struct(&req); err != nil {
		return helper.JsonValidationError(c, helper.ValidationErrorMap(err))
	}

	user := req.ToModel()
	if err := service.CreateProfessor(uc.DB, user); err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return helper.JsonError(c, fiber.StatusConflict, err.Error())
		}
		log.Println("[ERROR] Failed to create professor:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create professor")
	}

	log.Printf("[SUCCESS] Professor created: %s", user.Email)
	return helper.JsonCreated(c, "Professor created", dto.ToProfessorDTO(user))
}

// DELETE /api/users/professor/:id
func (uc *UserController) DeleteProfessor(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return err
	}
	deleted, err := service.DeleteProfessor(uc.DB, id)
	if err != nil {
		if errors.Is(err, service.ErrProfessorNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, err.Error())
		}
		log.Println("[ERROR] Failed to delete professor:", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to delete professor")
	}
	presenceService.InvalidateReports(c.UserContext(), uc.Cache)
	return helper.JsonDeleted(c, "Professor deleted", dto.ToProfessorDTO(deleted))
}
