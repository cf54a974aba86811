package auth

import (
	"slices"
	"strings"

	"github.com/gofiber/fiber/v2"

	"gestionabsence_backend/internals/constants"
	helper "gestionabsence_backend/internals/helpers"
)

// OnlyRole lets the request through when the token role equals role exactly.
func OnlyRole(role, feature string) fiber.Handler {
	return roleGuard([]string{role}, constants.RoleError(role, feature))
}

// OnlyRolesSlice accepts any of the given roles.
func OnlyRolesSlice(allowedRoles ...string) fiber.Handler {
	return roleGuard(allowedRoles, constants.RoleError(strings.Join(allowedRoles, " / "), "this resource"))
}

// roleGuard must run after AuthMiddleware, which sets the role local.
func roleGuard(allowed []string, forbidden string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(helper.LocUserRole).(string)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Unauthorized: missing role information",
			})
		}
		if !slices.Contains(allowed, role) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": forbidden})
		}
		return c.Next()
	}
}
