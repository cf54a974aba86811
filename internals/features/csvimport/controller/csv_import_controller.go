package controller

import (
	"errors"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	groupService "gestionabsence_backend/internals/features/academics/groups/service"
	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	"gestionabsence_backend/internals/features/csvimport/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

const maxCSVSize = 5 << 20

type CSVImportController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewCSVImportController(db *gorm.DB, rc *cache.Cache) *CSVImportController {
	return &CSVImportController{DB: db, Cache: rc}
}

func readUpload(c *fiber.Ctx) ([]byte, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Aucun fichier reçu")
	}
	if fh.Size > maxCSVSize {
		return nil, fiber.NewError(fiber.StatusRequestEntityTooLarge, "Fichier trop volumineux")
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

func csvError(c *fiber.Ctx, err error, fallback string) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, service.ErrEmptyFile), errors.Is(err, service.ErrBadCSV):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, groupService.ErrGroupNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	}
	log.Printf("[ERROR] %s: %v", fallback, err)
	return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
}

// POST /api/csv/students
func (cc *CSVImportController) ImportStudents(c *fiber.Ctx) error {
	data, err := readUpload(c)
	if err != nil {
		return csvError(c, err, "Erreur lors de la lecture du fichier")
	}
	res, err := service.ImportStudents(cc.DB, data)
	if err != nil {
		return csvError(c, err, "Erreur lors de l'import des étudiants")
	}
	presenceService.InvalidateReports(c.UserContext(), cc.Cache)
	log.Printf("[INFO] csv students: %d created, %d updated, %d skipped", res.Created, res.Updated, res.Skipped)
	return helper.JsonOK(c, "Import terminé", res)
}

// POST /api/csv/inscriptions/:groupId
func (cc *CSVImportController) ImportInscriptions(c *fiber.Ctx) error {
	groupID, err := helper.ParseIDParam(c, "groupId")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid group id")
	}
	data, err := readUpload(c)
	if err != nil {
		return csvError(c, err, "Erreur lors de la lecture du fichier")
	}
	res, err := service.EnrollFromCSV(cc.DB, groupID, data)
	if err != nil {
		return csvError(c, err, "Erreur lors de l'inscription des étudiants")
	}
	presenceService.InvalidateReports(c.UserContext(), cc.Cache)
	return helper.JsonOK(c, "Inscriptions terminées", res)
}
