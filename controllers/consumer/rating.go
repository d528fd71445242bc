package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

// CreateReview adds a new review for a provider
func (ctl *Controller) CreateReview(c *fiber.Ctx) error {
	var req models.CreateReviewRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	review, err := ctl.svc.Review().Create(c.UserContext(), middleware.Actor(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}
