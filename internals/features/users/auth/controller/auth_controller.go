package controller

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"gestionabsence_backend/internals/features/users/auth/dto"
	"gestionabsence_backend/internals/features/users/auth/service"
	helper "gestionabsence_backend/internals/helpers"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{DB: db}
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	res, err := service.Login(ac.DB, req.Email, req.Password)
	if err != nil {
		return authError(c, err)
	}
	log.Printf("[INFO] login ok user=%d role=%s", res.User.ID, res.User.Role)
	return helper.JsonOK(c, "Login successful", dto.ToLoginResponse(res))
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.LoginGoogleRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}

	res, err := service.LoginGoogle(ac.DB, req.IDToken)
	if err != nil {
		return authError(c, err)
	}
	return helper.JsonOK(c, "Login successful", dto.ToLoginResponse(res))
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	if err := service.Logout(ac.DB, helper.GetRawAccessToken(c)); err != nil {
		log.Printf("[ERROR] blacklist token: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Logout failed")
	}
	c.ClearCookie("access_token")
	return helper.JsonOK(c, "Logout successful", nil)
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	user, err := service.Me(ac.DB, userID)
	if err != nil {
		return authError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.ToUserDTO(user))
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if ok, err := helper.ParseAndValidate(c, &req); !ok {
		return err
	}
	if err := service.ChangePassword(ac.DB, userID, req.OldPassword, req.NewPassword); err != nil {
		return authError(c, err)
	}
	return helper.JsonUpdated(c, "Mot de passe modifié", nil)
}

func authError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidGoogleToken),
		errors.Is(err, service.ErrAccountDisabled):
		return helper.JsonError(c, fiber.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrSamePassword):
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrGoogleDisabled):
		return helper.JsonError(c, fiber.StatusServiceUnavailable, err.Error())
	default:
		log.Printf("[ERROR] auth: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Internal Server Error")
	}
}
