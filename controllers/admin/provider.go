package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

// GetProviders lists provider profiles. ?verified=false gives the
// verification queue.
func (ctl *Controller) GetProviders(c *fiber.Ctx) error {
	verified, err := controllers.QueryOptionalBool(c, "verified")
	if err != nil {
		return utils.SendError(c, err)
	}

	page, err := ctl.svc.Admin().ListProviders(c.UserContext(), verified, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(page)
}

func (ctl *Controller) VerifyProvider(c *fiber.Ctx) error {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req models.VerifyRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	profile, err := ctl.svc.Admin().VerifyProvider(c.UserContext(), id, *req.IsVerified)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(profile)
}

// GetCredentials lists credentials by ?status=, pending by default.
func (ctl *Controller) GetCredentials(c *fiber.Ctx) error {
	list, err := ctl.svc.Admin().ListCredentials(c.UserContext(), models.CredentialStatus(c.Query("status")))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(list)
}

func (ctl *Controller) VerifyCredential(c *fiber.Ctx) error {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req models.VerifyRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	credential, err := ctl.svc.Admin().VerifyCredential(c.UserContext(), id, *req.IsVerified)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(credential)
}
