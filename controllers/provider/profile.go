package provider

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

func (ctl *Controller) GetProfile(c *fiber.Ctx) error {
	profile, err := ctl.svc.Provider().GetOwnProfile(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(profile)
}

// CreateProfile creates the caller's provider profile. A provider has at
// most one.
func (ctl *Controller) CreateProfile(c *fiber.Ctx) error {
	var req models.ProviderProfileRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	profile, err := ctl.svc.Provider().CreateProfile(c.UserContext(), middleware.Actor(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (ctl *Controller) UpdateProfile(c *fiber.Ctx) error {
	var req models.UpdateProviderProfileRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	profile, err := ctl.svc.Provider().UpdateProfile(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(profile)
}
