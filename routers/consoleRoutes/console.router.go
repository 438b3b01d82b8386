package consoleRoutes

import (
	consoleControllers "finconsole/controllers/console"
	"finconsole/console"
	"finconsole/middleware"
	consoleValidators "finconsole/validators/console"

	"github.com/gofiber/fiber/v2"
)

func SetupConsoleRoutes(app *fiber.App, registry *console.Registry) {
	consoleGroup := app.Group("/console", middleware.SessionMiddleware(registry))

	consoleGroup.Get("/branches", consoleControllers.Branches)
	consoleGroup.Post("/branches/select", consoleValidators.Branch(), consoleControllers.SelectBranch)
	consoleGroup.Get("/dashboard", consoleControllers.Dashboard)
	consoleGroup.Get("/notifications", consoleControllers.Notifications)
	consoleGroup.Get("/audit", consoleControllers.AuditTrail)
	consoleGroup.Post("/refresh", consoleControllers.Refresh)

	accountGroup := consoleGroup.Group("/accounts")
	kind := consoleValidators.Kind()
	accountGroup.Get("/:kind", kind, consoleControllers.AccountRows)
	accountGroup.Post("/:kind/search", kind, consoleValidators.Search(), consoleControllers.SearchAccounts)
	accountGroup.Post("/:kind/search/reset", kind, consoleControllers.ResetSearch)
	accountGroup.Post("/:kind/refresh", kind, consoleControllers.RefreshPresence)
	accountGroup.Get("/:kind/flow", kind, consoleControllers.FlowState)
	accountGroup.Post("/:kind/flow/open", kind, consoleValidators.OpenFlow(), consoleControllers.OpenFlow)
	accountGroup.Post("/:kind/flow/validate", kind, consoleValidators.Form(), consoleControllers.ValidateFlow)
	accountGroup.Post("/:kind/flow/submit", kind, consoleValidators.Form(), consoleControllers.SubmitFlow)
	accountGroup.Post("/:kind/flow/back", kind, consoleControllers.BackFlow)
	accountGroup.Post("/:kind/flow/cancel", kind, consoleControllers.CancelFlow)
	accountGroup.Post("/:kind/flow/confirm", kind, consoleControllers.ConfirmFlow)
}
