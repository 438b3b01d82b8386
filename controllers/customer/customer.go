package customerController

import (
	"log"

	"finconsole/console"
	"finconsole/middleware"
	"finconsole/models"

	"github.com/gofiber/fiber/v2"
)

// List returns the customer table of the selected branch
func List(c *fiber.Ctx) error {
	view := middleware.CurrentSession(c).Customers()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customers fetched successfully.", fiber.Map{
		"rows":          view.Rows(),
		"query":         view.Query(),
		"searchPending": view.SearchPending(),
	})
}

// Search debounces a customer search, or applies it at once with ?immediate=true
func Search(c *fiber.Ctx) error {
	view := middleware.CurrentSession(c).Customers()
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

func ResetSearch(c *fiber.Ctx) error {
	view := middleware.CurrentSession(c).Customers()
	view.ResetQuery()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Search cleared.", fiber.Map{
		"rows":  view.Rows(),
		"query": view.Query(),
	})
}

// Get returns one customer with the presence of every account kind
func Get(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	owner, ok := session.Owner(c.Params("id"))
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Customer not found!", nil)
	}

	accounts := fiber.Map{}
	for _, kind := range models.AccountKinds {
		cache, _ := session.Cache(kind)
		entry, checked := cache.Lookup(owner.UserID.String())
		accounts[string(kind)] = fiber.Map{"checked": checked, "presence": entry}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Customer fetched successfully.", fiber.Map{
		"customer": owner,
		"name":     owner.FullName(),
		"accounts": accounts,
	})
}

// Register forwards a validated customer registration and reloads the list
func Register(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	registration := c.Locals("registration").(models.OwnerRegistration)
	documents, _ := c.Locals("documents").([]models.Document)

	ctx, done := session.Bind(c.UserContext())
	defer done()

	result, err := session.Backend().RegisterOwner(ctx, registration, documents)
	if err != nil {
		log.Printf("Error registering customer %s %s: %v", registration.FirstName, registration.LastName, err)
		session.Notes.Error("Failed to register customer")
		return middleware.ConsoleErrorResponse(c, err, nil)
	}

	session.Notes.Success("Customer registered successfully!")
	if err := session.LoadOwners(ctx); err != nil {
		log.Printf("Error reloading customers after registration: %v", err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Customer registered successfully.", result)
}
