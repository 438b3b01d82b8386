package authRoutes

import (
	"finconsole/backend"
	authControllers "finconsole/controllers/auth"
	"finconsole/console"
	"finconsole/middleware"
	authValidators "finconsole/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, registry *console.Registry, client *backend.Client) {
	authGroup := app.Group("/auth")
	session := middleware.SessionMiddleware(registry)

	authGroup.Post("/login", authValidators.Login(), authControllers.Login(registry, client))
	authGroup.Post("/logout", session, authControllers.Logout(registry))
	authGroup.Get("/me", session, authControllers.Me)
	authGroup.Post("/admins/register", session, middleware.RequireRole("SUPER_ADMIN"), authValidators.RegisterAdmin(), authControllers.RegisterAdmin(client))
}
