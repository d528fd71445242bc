package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
	"github.com/meinhoongagan/home-services/utils"
)

// BookingController serves bookings for every role. Which bookings a caller
// sees is decided by the booking service.
type BookingController struct {
	svc services.IServiceManager
}

func NewBookingController(svc services.IServiceManager) *BookingController {
	return &BookingController{svc: svc}
}

func (ctl *BookingController) GetBookings(c *fiber.Ctx) error {
	status := models.BookingStatus(c.Query("status"))
	if status != "" && !status.Valid() {
		return utils.SendError(c, services.ErrInvalidInput)
	}

	list, err := ctl.svc.Booking().List(c.UserContext(), middleware.Actor(c), status)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(list)
}

func (ctl *BookingController) GetBooking(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	booking, err := ctl.svc.Booking().Get(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(booking)
}

// CreateBooking books a provider for a catalog service. Customers only.
func (ctl *BookingController) CreateBooking(c *fiber.Ctx) error {
	var req models.CreateBookingRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	booking, err := ctl.svc.Booking().Create(c.UserContext(), middleware.Actor(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(booking)
}

// UpdateBookingStatus moves a booking through its lifecycle.
func (ctl *BookingController) UpdateBookingStatus(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}
	var req models.UpdateBookingStatusRequest
	if err := utils.ParseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	booking, err := ctl.svc.Booking().UpdateStatus(c.UserContext(), middleware.Actor(c), id, req.Status, req.Note)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(booking)
}

func (ctl *BookingController) GetBookingPayment(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	payment, err := ctl.svc.Payment().GetForBooking(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(payment)
}

func (ctl *BookingController) GetBookingReview(c *fiber.Ctx) error {
	id, err := ParamID(c, "id")
	if err != nil {
		return utils.SendError(c, err)
	}

	review, err := ctl.svc.Review().GetForBooking(c.UserContext(), middleware.Actor(c), id)
	if err != nil {
		return utils.SendError(c, err)
	}
	return c.JSON(review)
}
