package provider

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/utils"
)

// GetDashboardOverview returns booking counts, earnings and rating for the
// calling provider.
func (ctl *Controller) GetDashboardOverview(c *fiber.Ctx) error {
	dashboard, err := ctl.svc.Provider().Dashboard(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(dashboard)
}
