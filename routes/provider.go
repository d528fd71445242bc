package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers/consumer"
	"github.com/meinhoongagan/home-services/controllers/provider"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/models"
	"github.com/meinhoongagan/home-services/services"
)

// SetupProviderRoutes registers the public provider directory and the
// provider's own management routes.
func SetupProviderRoutes(app *fiber.App, svc services.IServiceManager, protected fiber.Handler) {
	public := consumer.New(svc)
	directory := app.Group("/api/providers")
	directory.Get("/", public.GetAllProviders)
	directory.Get("/:id", public.GetProviderDetails)
	directory.Get("/:id/reviews", public.GetProviderReviews)

	ctl := provider.New(svc)
	onlyProvider := middleware.RequireRole(models.RoleProvider)
	own := app.Group("/api/provider")
	own.Get("/profile", protected, onlyProvider, ctl.GetProfile)
	own.Post("/profile", protected, middleware.RequirePermission("profile", "create"), ctl.CreateProfile)
	own.Patch("/profile", protected, middleware.RequirePermission("profile", "update"), ctl.UpdateProfile)

	own.Get("/credentials", protected, middleware.RequirePermission("credentials", "read"), onlyProvider, ctl.GetCredentials)
	own.Post("/credentials", protected, middleware.RequirePermission("credentials", "create"), ctl.AddCredential)
	own.Delete("/credentials/:id", protected, middleware.RequirePermission("credentials", "delete"), ctl.DeleteCredential)

	own.Get("/dashboard", protected, middleware.RequirePermission("dashboard", "read"), ctl.GetDashboardOverview)
}
