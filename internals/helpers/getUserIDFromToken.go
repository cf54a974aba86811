package helper

import (
	"github.com/gofiber/fiber/v2"
)

// GetUserIDFromToken returns 401 when the request carries no authenticated user.
func GetUserIDFromToken(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(LocUserID).(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusUnauthorized, "User not logged in")
	}
	return id, nil
}

func GetRoleFromToken(c *fiber.Ctx) string {
	role, _ := c.Locals(LocUserRole).(string)
	return role
}

// GetStudentIDFromToken returns the student linked to an ETUDIANT account.
func GetStudentIDFromToken(c *fiber.Ctx) (uint, error) {
	id, ok := c.Locals(LocStudentID).(uint)
	if !ok || id == 0 {
		return 0, fiber.NewError(fiber.StatusForbidden, "No student profile linked to this account")
	}
	return id, nil
}
