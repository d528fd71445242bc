package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/storage"
	"github.com/meinhoongagan/home-services/utils"
)

// GetAllProviders searches provider profiles.
// Query: category, q, minRating, verified, page, limit.
func (ctl *Controller) GetAllProviders(c *fiber.Ctx) error {
	filter := storage.ProviderFilter{
		Category:     c.Query("category"),
		Query:        c.Query("q"),
		MinRating:    c.QueryFloat("minRating", 0),
		VerifiedOnly: c.QueryBool("verified", false),
		Page:         c.QueryInt("page", 1),
		Limit:        c.QueryInt("limit", 10),
	}

	page, err := ctl.svc.Provider().Search(c.UserContext(), filter)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(page)
}

// GetProviderDetails returns a provider's public profile.
func (ctl *Controller) GetProviderDetails(c *fiber.Ctx) error {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	profile, err := ctl.svc.Provider().GetPublicProfile(c.UserContext(), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(profile)
}

func (ctl *Controller) GetProviderReviews(c *fiber.Ctx) error {
	id, err := controllers.ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	reviews, err := ctl.svc.Provider().ListReviews(c.UserContext(), id, c.QueryInt("page", 1), c.QueryInt("limit", 10))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(reviews)
}
