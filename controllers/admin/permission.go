package admin

import "github.com/gofiber/fiber/v2"

// GetRoles returns the static role to permission matrix.
func (ctl *Controller) GetRoles(c *fiber.Ctx) error {
	return c.JSON(ctl.svc.Admin().RolePermissions())
}
