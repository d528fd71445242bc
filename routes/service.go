package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/middleware"
	"github.com/meinhoongagan/home-services/services"
)

// SetupServiceRoutes exposes the catalog. Reads are public, writes are
// admin only.
func SetupServiceRoutes(app *fiber.App, svc services.IServiceManager, protected fiber.Handler) {
	ctl := controllers.NewServiceController(svc)

	service := app.Group("/api/services")
	service.Get("/", ctl.GetAllServices)
	service.Get("/:id", ctl.GetService)
	service.Post("/", protected, middleware.RequirePermission("services", "create"), ctl.CreateService)
	service.Patch("/:id", protected, middleware.RequirePermission("services", "update"), ctl.UpdateService)
	service.Delete("/:id", protected, middleware.RequirePermission("services", "delete"), ctl.DeleteService)
}
