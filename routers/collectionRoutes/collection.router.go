package collectionRoutes

import (
	collectionControllers "finconsole/controllers/collection"
	"finconsole/console"
	"finconsole/middleware"
	consoleValidators "finconsole/validators/console"

	"github.com/gofiber/fiber/v2"
)

func SetupCollectionRoutes(app *fiber.App, registry *console.Registry) {
	collectionGroup := app.Group("/console/collections", middleware.SessionMiddleware(registry))

	collectionGroup.Get("/", collectionControllers.List)
	collectionGroup.Post("/reload", collectionControllers.Reload)

	collectionGroup.Get("/pay", collectionControllers.PayState)
	collectionGroup.Post("/pay/open", consoleValidators.AccountNumber(), collectionControllers.OpenPay)
	collectionGroup.Post("/pay/validate", consoleValidators.Form(), collectionControllers.ValidatePay)
	collectionGroup.Post("/pay/submit", consoleValidators.Form(), collectionControllers.SubmitPay)
	collectionGroup.Post("/pay/back", collectionControllers.BackPay)
	collectionGroup.Post("/pay/cancel", collectionControllers.CancelPay)
	collectionGroup.Post("/pay/confirm", collectionControllers.ConfirmPay)

	collectionGroup.Post("/history/open/:accountNumber", collectionControllers.OpenHistory)
	collectionGroup.Get("/history", collectionControllers.History)
	collectionGroup.Post("/history/filter", consoleValidators.HistoryFilter(), collectionControllers.FilterHistory)
	collectionGroup.Post("/history/clear", collectionControllers.ClearHistory)
	collectionGroup.Delete("/history", collectionControllers.CloseHistory)
	collectionGroup.Get("/history/export", collectionControllers.ExportHistory)
}
