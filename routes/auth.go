package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/home-services/config"
	"github.com/meinhoongagan/home-services/controllers"
	"github.com/meinhoongagan/home-services/services"
)

func SetupAuthRoutes(app *fiber.App, cfg config.Config, svc services.IServiceManager, protected fiber.Handler) {
	ctl := controllers.NewAuthController(svc, cfg)

	api := app.Group("/api")
	api.Post("/register", ctl.Register)
	api.Post("/login", ctl.Login)
	api.Post("/refresh", ctl.RefreshToken)
	api.Post("/logout", protected, ctl.Logout)

	api.Get("/user", protected, ctl.GetUserProfile)
	api.Patch("/user", protected, ctl.UpdateUserProfile)
	api.Post("/user/picture", protected, ctl.UploadProfilePicture)
}
