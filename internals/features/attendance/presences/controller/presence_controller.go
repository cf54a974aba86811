package controller

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/constants"
	"gestionabsence_backend/internals/features/attendance/presences/dto"
	"gestionabsence_backend/internals/features/attendance/presences/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
	"gestionabsence_backend/internals/helpers/storage"
)

type PresenceController struct {
	DB    *gorm.DB
	Cache *cache.Cache
	Store storage.BlobStore
}

func NewPresenceController(db *gorm.DB, rc *cache.Cache, store storage.BlobStore) *PresenceController {
	return &PresenceController{DB: db, Cache: rc, Store: store}
}

func presenceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, service.ErrPresenceNotFound),
		errors.Is(err, service.ErrSlotNotFound),
		errors.Is(err, service.ErrStudentNotFound),
		errors.Is(err, service.ErrNoJustification):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyAbsent):
		return helper.JsonError(c, fiber.StatusConflict, err.Error())
	default:
		log.Printf("[ERROR] %s: %v", fallback, err)
		return helper.JsonError(c, fiber.StatusInternalServerError, fallback)
	}
}

func (pc *PresenceController) invalidate(c *fiber.Ctx) {
	service.InvalidateReports(c.UserContext(), pc.Cache)
}

func studentSlotParams(c *fiber.Ctx) (uint, uint, error) {
	studentID, err := helper.ParseIDParam(c, "student_id")
	if err != nil {
		return 0, 0, err
	}
	slotID, err := helper.ParseIDParam(c, "slot_id")
	if err != nil {
		return 0, 0, err
	}
	return studentID, slotID, nil
}

/* ===================== PROFESSEUR ===================== */

// GET /api/presence/slot/:slot_id
func (pc *PresenceController) GetBySlot(c *fiber.Ctx) error {
	slotID, err := helper.ParseIDParam(c, "slot_id")
	if err != nil {
		return err
	}
	rows, err := service.ListBySlot(pc.DB, slotID)
	if err != nil {
		return presenceError(c, err, "Failed to retrieve absences")
	}
	return helper.JsonOK(c, "ok", rows)
}

// PUT /api/presence/update/:slot_id  body: [student ids]
func (pc *PresenceController) ReplaceForSlot(c *fiber.Ctx) error {
	slotID, err := helper.ParseIDParam(c, "slot_id")
	if err != nil {
		return err
	}
	ids, err := helper.ParseIDList(c)
	if err != nil {
		return err
	}
	rows, err := service.ReplaceForSlot(pc.DB, slotID, ids)
	if err != nil {
		return presenceError(c, err, "Failed to save the call")
	}
	pc.invalidate(c)
	log.Printf("[INFO] slot %d: %d absences saved", slotID, len(rows))
	return helper.JsonUpdated(c, "Appel enregistré", rows)
}

// POST /api/presence
func (pc *PresenceController) Create(c *fiber.Ctx) error {
	var req dto.CreatePresenceRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := service.Create(pc.DB, req.StudentID, req.SlotID)
	if err != nil {
		return presenceError(c, err, "Failed to create absence")
	}
	pc.invalidate(c)
	return helper.JsonCreated(c, "Absence enregistrée", row)
}

// POST /api/presence/many/:slot_id  body: [student ids]
func (pc *PresenceController) CreateMany(c *fiber.Ctx) error {
	slotID, err := helper.ParseIDParam(c, "slot_id")
	if err != nil {
		return err
	}
	ids, err := helper.ParseIDList(c)
	if err != nil {
		return err
	}
	n, err := service.CreateMany(pc.DB, slotID, ids)
	if err != nil {
		return presenceError(c, err, "Failed to create absences")
	}
	pc.invalidate(c)
	return helper.JsonCreated(c, "Absences enregistrées", fiber.Map{"count": n})
}

/* ===================== READ (auth) ===================== */

// GET /api/presence/by-year/:year
func (pc *PresenceController) GetByYear(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil || year < 1 || year > 3 {
		return helper.JsonError(c, fiber.StatusBadRequest, "year must be 1, 2 or 3")
	}
	rows, err := service.CachedAbsencesByYear(c.UserContext(), pc.DB, pc.Cache, year)
	if err != nil {
		return presenceError(c, err, "Failed to compute absences")
	}
	return helper.JsonOK(c, "ok", rows)
}

// GET /api/presence/:student_id/:slot_id
func (pc *PresenceController) GetOne(c *fiber.Ctx) error {
	studentID, slotID, err := studentSlotParams(c)
	if err != nil {
		return err
	}
	row, err := service.Get(pc.DB, studentID, slotID)
	if err != nil {
		return presenceError(c, err, "Failed to retrieve absence")
	}
	return helper.JsonOK(c, "ok", row)
}

// GET /api/presence?page=&per_page=
func (pc *PresenceController) GetAll(c *fiber.Ctx) error {
	p := helper.ResolvePaging(c, 50, 500)
	rows, total, err := service.List(pc.DB, p)
	if err != nil {
		return presenceError(c, err, "Failed to retrieve absences")
	}
	return helper.JsonList(c, "ok", rows, helper.BuildPagination(total, p, len(rows)))
}

/* ===================== GESTIONNAIRE ===================== */

// PUT /api/presence/:student_id/:slot_id  {justified}
func (pc *PresenceController) SetJustified(c *fiber.Ctx) error {
	studentID, slotID, err := studentSlotParams(c)
	if err != nil {
		return err
	}
	var req dto.UpdateJustifiedRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	row, err := service.SetJustified(pc.DB, studentID, slotID, *req.Justified)
	if err != nil {
		return presenceError(c, err, "Failed to update absence")
	}
	pc.invalidate(c)
	return helper.JsonUpdated(c, "Absence mise à jour", row)
}

// DELETE /api/presence/:student_id/:slot_id
func (pc *PresenceController) Delete(c *fiber.Ctx) error {
	studentID, slotID, err := studentSlotParams(c)
	if err != nil {
		return err
	}
	row, err := service.Delete(pc.DB, studentID, slotID)
	if err != nil {
		return presenceError(c, err, "Failed to delete absence")
	}
	if row.JustificationFile != nil {
		pc.dropBlob(c, *row.JustificationFile)
	}
	pc.invalidate(c)
	return helper.JsonDeleted(c, "Absence supprimée", row)
}

// DELETE /api/presence
func (pc *PresenceController) DeleteAll(c *fiber.Ctx) error {
	n, err := service.DeleteAll(pc.DB)
	if err != nil {
		return presenceError(c, err, "Failed to delete absences")
	}
	pc.invalidate(c)
	return helper.JsonDeleted(c, "Toutes les absences ont été supprimées", fiber.Map{"count": n})
}

/* ===================== ETUDIANT ===================== */

// GET /api/presence/me
func (pc *PresenceController) GetMine(c *fiber.Ctx) error {
	studentID, err := helper.GetStudentIDFromToken(c)
	if err != nil {
		return err
	}
	rows, err := service.AbsencesByStudent(pc.DB, studentID)
	if err != nil {
		return presenceError(c, err, "Failed to retrieve absences")
	}
	return helper.JsonOK(c, "ok", rows)
}

// POST /api/presence/justify/:slot_id  multipart "file" (+ "student_id" for the manager)
func (pc *PresenceController) Justify(c *fiber.Ctx) error {
	slotID, err := helper.ParseIDParam(c, "slot_id")
	if err != nil {
		return err
	}

	var studentID uint
	if helper.GetRoleFromToken(c) == constants.RoleStudent {
		if studentID, err = helper.GetStudentIDFromToken(c); err != nil {
			return err
		}
	} else {
		n, perr := strconv.ParseUint(c.FormValue("student_id"), 10, 64)
		if perr != nil || n == 0 {
			return helper.JsonError(c, fiber.StatusBadRequest, "student_id is required")
		}
		studentID = uint(n)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "file is required")
	}
	if fh.Size > storage.MaxUploadSize {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, storage.ErrFileTooLarge.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read upload")
	}
	defer f.Close()
	raw, err := io.ReadAll(io.LimitReader(f, storage.MaxUploadSize+1))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "cannot read upload")
	}

	doc, err := storage.PrepareDocument(raw, fh.Filename)
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, storage.ErrUnsupportedType), errors.Is(err, storage.ErrEmptyFile):
		return helper.JsonError(c, fiber.StatusUnsupportedMediaType, err.Error())
	case err != nil:
		log.Printf("[ERROR] prepare justification: %v", err)
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, "Document illisible")
	}

	ctx := c.UserContext()
	ref, err := pc.Store.Put(ctx, storage.GenerateObjectName("justif", doc.Ext), doc.ContentType, doc.Data)
	if err != nil {
		log.Printf("[ERROR] store justification: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to store the document")
	}

	row, previous, err := service.AttachJustification(pc.DB, studentID, slotID, ref)
	if err != nil {
		pc.dropBlob(c, ref)
		return presenceError(c, err, "Failed to save justification")
	}
	if previous != "" && previous != ref {
		pc.dropBlob(c, previous)
	}
	pc.invalidate(c)
	log.Printf("[INFO] justification stored student=%d slot=%d ref=%s (%s)", studentID, slotID, ref, pc.Store.Driver())
	return helper.JsonCreated(c, "Justificatif enregistré", row)
}

/* ===================== DOWNLOAD ===================== */

// GET /api/presence/:student_id/:slot_id/justification
func (pc *PresenceController) DownloadJustification(c *fiber.Ctx) error {
	studentID, slotID, err := studentSlotParams(c)
	if err != nil {
		return err
	}
	if helper.GetRoleFromToken(c) == constants.RoleStudent {
		own, err := helper.GetStudentIDFromToken(c)
		if err != nil {
			return err
		}
		if own != studentID {
			return helper.JsonError(c, fiber.StatusForbidden, "Vous ne pouvez consulter que vos propres justificatifs")
		}
	}

	ref, err := service.JustificationRef(pc.DB, studentID, slotID)
	if err != nil {
		return presenceError(c, err, "Failed to retrieve justification")
	}
	loc, err := pc.Store.Locate(c.UserContext(), ref)
	if err != nil {
		log.Printf("[WARN] justification %s missing from storage: %v", ref, err)
		return helper.JsonError(c, fiber.StatusNotFound, "Fichier introuvable")
	}
	if loc.URL != "" {
		return c.Redirect(loc.URL, fiber.StatusFound)
	}
	return c.Download(loc.LocalPath, ref)
}

func (pc *PresenceController) dropBlob(c *fiber.Ctx, ref string) {
	if err := pc.Store.Delete(c.UserContext(), ref); err != nil {
		log.Printf("[WARN] delete blob %s: %v", ref, err)
	}
}
