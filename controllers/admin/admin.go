// Package admin holds the back-office handlers. All routes here require
// the admin role.
package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

type Controller struct {
	svc services.IServiceManager
}

func New(svc services.IServiceManager) *Controller {
	return &Controller{svc: svc}
}

// GetUsers lists accounts, optionally filtered by ?role=
func (ctl *Controller) GetUsers(c *fiber.Ctx) error {
	users, err := ctl.svc.Admin().ListUsers(c.UserContext(), models.Role(c.Query("role")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(users)
}

func (ctl *Controller) GetBookings(c *fiber.Ctx) error {
	list, err := ctl.svc.Admin().ListBookings(c.UserContext(), models.BookingStatus(c.Query("status")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(list)
}

func (ctl *Controller) GetStats(c *fiber.Ctx) error {
	stats, err := ctl.svc.Admin().Stats(c.UserContext())
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(stats)
}
