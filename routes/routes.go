package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/services"
)

// Setup registers every route of the API. Middleware is attached per route:
// group middleware matches by plain prefix, so "/api/provider" would also
// catch "/api/providers".
func Setup(app *fiber.App, cfg config.Config, svc services.IServiceManager) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	protected := middleware.Protected(cfg, svc.Auth())

	SetupAuthRoutes(app, cfg, svc, protected)
	SetupServiceRoutes(app, svc, protected)
	SetupProviderRoutes(app, svc, protected)
	SetupBookingRoutes(app, svc, protected)
	SetupConsumerRoutes(app, svc, protected)
	SetupAdminRoutes(app, svc, protected)
}
