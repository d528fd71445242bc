package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

// RequirePermission checks the caller's role against the static permission
// matrix. Must run after Protected.
func RequirePermission(resource string, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !models.HasPermission(Role(c), resource, action) {
			return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
				Message: "You don't have permission to perform this action",
				Error:   "Forbidden",
			})
		}
		return c.Next()
	}
}

// RequireRole lets the request through when the caller has one of roles.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Message: "You don't have the required role to perform this action",
			Error:   "Forbidden",
		})
	}
}
