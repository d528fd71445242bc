package consumer

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/utils"
)

// CreatePayment records a payment for a finished booking.
func (ctl *Controller) CreatePayment(c *fiber.Ctx) error {
	var req models.CreatePaymentRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	payment, err := ctl.svc.Payment().Create(c.UserContext(), middleware.Actor(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

// GetPayments lists payments made by a customer or received by a provider.
func (ctl *Controller) GetPayments(c *fiber.Ctx) error {
	payments, err := ctl.svc.Payment().ListMine(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(payments)
}
