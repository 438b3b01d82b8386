package consoleController

import (
	"finconsole/console"
	"finconsole/forms"
	"finconsole/middleware"
	"finconsole/models"
	consoleValidator "finconsole/validators/console"

	"github.com/gofiber/fiber/v2"
)

func kindOf(c *fiber.Ctx) models.AccountKind {
	return c.Locals("kind").(models.AccountKind)
}

func flowOf(c *fiber.Ctx) *console.Flow {
	flow, _ := middleware.CurrentSession(c).Flow(kindOf(c))
	return flow
}

func viewOf(c *fiber.Ctx) *console.OwnerView {
	view, _ := middleware.CurrentSession(c).View(kindOf(c))
	return view
}

// AccountRows returns the account-management table of one kind
func AccountRows(c *fiber.Ctx) error {
	view := viewOf(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customers fetched successfully.", fiber.Map{
		"rows":          view.Rows(),
		"query":         view.Query(),
		"searchPending": view.SearchPending(),
	})
}

// SearchAccounts applies a search term after the debounce window, or at once
// with ?immediate=true.
func SearchAccounts(c *fiber.Ctx) error {
	return search(c, viewOf(c))
}

func search(c *fiber.Ctx, view *console.OwnerView) error {
	query := c.Locals("query").(console.Query)
	if c.QueryBool("immediate") {
		view.SetQuery(query)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Search applied.", fiber.Map{
			"rows":  view.Rows(),
			"query": view.Query(),
		})
	}
	view.Search(query)
	return middleware.JsonResponse(c, fiber.StatusAccepted, true, "Search scheduled.", fiber.Map{
		"searchPending": true,
	})
}

// ResetSearch clears the table's filter when the screen closes
func ResetSearch(c *fiber.Ctx) error {
	view := viewOf(c)
	view.ResetQuery()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search cleared.", fiber.Map{
		"rows":  view.Rows(),
		"query": view.Query(),
	})
}

// RefreshPresence re-checks which customers hold the account kind
func RefreshPresence(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if err := session.RefreshPresence(c.UserContext(), kindOf(c)); err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Accounts refreshed.", viewOf(c).Rows())
}

func FlowState(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form state fetched.", flowOf(c).Snapshot())
}

// OpenFlow opens the add, update or delete modal for a customer
func OpenFlow(c *fiber.Ctx) error {
	reqData := c.Locals("openFlow").(*consoleValidator.OpenFlowRequest)
	session := middleware.CurrentSession(c)
	if _, ok := session.Owner(reqData.OwnerID); !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Customer not found!", nil)
	}

	flow := flowOf(c)
	var snap console.FlowSnapshot
	var err error
	switch reqData.Action {
	case console.ActionAdd:
		snap, err = flow.OpenCreate(reqData.OwnerID)
	case console.ActionUpdate:
		snap, err = flow.OpenUpdate(reqData.OwnerID)
	case console.ActionDelete:
		snap, err = flow.OpenDelete(reqData.OwnerID)
	}
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form opened.", snap)
}

// ValidateFlow runs inline validation without submitting
func ValidateFlow(c *fiber.Ctx) error {
	snap, errs := flowOf(c).Validate(c.Locals("form").(forms.Raw))
	if errs != nil {
		return middleware.ConsoleErrorResponse(c, errs, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form is valid.", snap)
}

func SubmitFlow(c *fiber.Ctx) error {
	snap, err := flowOf(c).Submit(c.Locals("form").(forms.Raw))
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Please review and confirm.", snap)
}

func BackFlow(c *fiber.Ctx) error {
	snap, err := flowOf(c).Back()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form reopened.", snap)
}

func CancelFlow(c *fiber.Ctx) error {
	snap, err := flowOf(c).Cancel()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form closed.", snap)
}

// ConfirmFlow issues the single mutation; the modal closes either way
func ConfirmFlow(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	ctx, done := session.Bind(c.UserContext())
	defer done()

	snap, err := flowOf(c).Confirm(ctx)
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, snap.Message, snap)
}
