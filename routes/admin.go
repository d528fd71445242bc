package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers/admin"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
)

func SetupAdminRoutes(app *fiber.App, svc services.IServiceManager, protected fiber.Handler) {
	ctl := admin.New(svc)

	group := app.Group("/api/admin", protected, middleware.RequireRole(models.RoleAdmin))
	group.Get("/users", ctl.GetUsers)
	group.Get("/providers", ctl.GetProviders)
	group.Patch("/providers/:id/verify", middleware.RequirePermission("providers", "verify"), ctl.VerifyProvider)
	group.Get("/credentials", ctl.GetCredentials)
	group.Patch("/credentials/:id/verify", middleware.RequirePermission("credentials", "verify"), ctl.VerifyCredential)
	group.Get("/bookings", ctl.GetBookings)
	group.Get("/stats", ctl.GetStats)
	group.Get("/roles", ctl.GetRoles)
}
