package controller

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	presenceService "gestionabsence_backend/internals/features/attendance/presences/service"
	"gestionabsence_backend/internals/features/promotion/dto"
	"gestionabsence_backend/internals/features/promotion/service"
	helper "gestionabsence_backend/internals/helpers"
	"gestionabsence_backend/internals/helpers/cache"
)

type PromotionController struct {
	DB    *gorm.DB
	Cache *cache.Cache
}

func NewPromotionController(db *gorm.DB, rc *cache.Cache) *PromotionController {
	return &PromotionController{DB: db, Cache: rc}
}

func actor(c *fiber.Ctx) *uint {
	id, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

// POST /api/promotion/semester/:year/:semester
func (pc *PromotionController) PromoteSemester(c *fiber.Ctx) error {
	year, err1 := strconv.Atoi(c.Params("year"))
	semester, err2 := strconv.Atoi(c.Params("semester"))
	if err1 != nil || err2 != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "year and semester must be numbers")
	}

	res, err := service.PromoteSemester(pc.DB, year, semester, actor(c))
	if err != nil {
		log.Printf("[WARN] promotion L%dS%d failed: %v", year, semester, err)
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	presenceService.InvalidateReports(c.UserContext(), pc.Cache)
	log.Printf("[INFO] %s", res.Message)
	return helper.JsonOK(c, res.Message, res)
}

// POST /api/promotion/year
func (pc *PromotionController) PromoteYear(c *fiber.Ctx) error {
	res, err := service.PromoteYear(pc.DB, actor(c))
	if err != nil {
		log.Printf("[WARN] year promotion failed: %v", err)
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}
	presenceService.InvalidateReports(c.UserContext(), pc.Cache)
	log.Printf("[INFO] %s", res.Message)
	return helper.JsonOK(c, res.Message, res)
}

// GET /api/promotion/history?limit=
func (pc *PromotionController) History(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	rows, err := service.History(pc.DB, limit)
	if err != nil {
		log.Printf("[ERROR] promotion history: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to retrieve promotion history")
	}
	return helper.JsonOK(c, "ok", dto.ToPromotionRunDTOs(rows))
}
