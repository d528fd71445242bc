package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers/consumer"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/services"
)

// SetupConsumerRoutes configures payments and reviews
func SetupConsumerRoutes(app *fiber.App, svc services.IServiceManager, protected fiber.Handler) {
	ctl := consumer.New(svc)

	payments := app.Group("/api/payments")
	payments.Post("/", protected, middleware.RequirePermission("payments", "create"), ctl.CreatePayment)
	payments.Get("/", protected, middleware.RequirePermission("payments", "read"), ctl.GetPayments)

	reviews := app.Group("/api/reviews")
	reviews.Post("/", protected, middleware.RequirePermission("reviews", "create"), ctl.CreateReview)
}
