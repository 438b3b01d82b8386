package customerRoutes

import (
	"finconsole/console"
	customerControllers "finconsole/controllers/customer"
	"finconsole/middleware"
	consoleValidators "finconsole/validators/console"
	customerValidators "finconsole/validators/customer"

	"github.com/gofiber/fiber/v2"
)

func SetupCustomerRoutes(app *fiber.App, registry *console.Registry) {
	customerGroup := app.Group("/console/customers", middleware.SessionMiddleware(registry))

	customerGroup.Get("/", customerControllers.List)
	customerGroup.Post("/search", consoleValidators.Search(), customerControllers.Search)
	customerGroup.Post("/search/reset", customerControllers.ResetSearch)
	customerGroup.Post("/register", customerValidators.Register(), customerControllers.Register)
	customerGroup.Get("/:id", customerControllers.Get)
}
