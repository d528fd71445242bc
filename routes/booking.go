package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/services"
)

func SetupBookingRoutes(app *fiber.App, svc services.IServiceManager, protected fiber.Handler) {
	ctl := controllers.NewBookingController(svc)
	canRead := middleware.RequirePermission("bookings", "read")

	booking := app.Group("/api/bookings")
	booking.Get("/", protected, canRead, ctl.GetBookings)
	booking.Post("/", protected, middleware.RequirePermission("bookings", "create"), ctl.CreateBooking)
	booking.Get("/:id", protected, canRead, ctl.GetBooking)
	booking.Patch("/:id/status", protected, middleware.RequirePermission("bookings", "update"), ctl.UpdateBookingStatus)
	booking.Get("/:id/payment", protected, canRead, ctl.GetBookingPayment)
	booking.Get("/:id/review", protected, canRead, ctl.GetBookingReview)
}
