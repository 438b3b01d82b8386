package consoleController

import (
	"errors"
	"log"
	"time"

	"finconsole/console"
	"finconsole/database"
	"finconsole/middleware"

	"github.com/gofiber/fiber/v2"
)

func Branches(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	branches := session.Branches()
	if len(branches) == 0 {
		var err error
		if branches, err = session.LoadBranches(c.UserContext()); err != nil {
			return middleware.ConsoleErrorResponse(c, err, nil)
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Branches fetched successfully.", fiber.Map{
		"branches": branches,
		"selected": session.Branch(),
	})
}

// SelectBranch rescopes every table of the session to one branch. An empty
// branch shows all branches.
func SelectBranch(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	branch := c.Locals("branch").(string)

	err := session.SelectBranch(c.UserContext(), branch)
	if errors.Is(err, console.ErrSessionClosed) {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	if err != nil {
		log.Printf("[SESSION] %s refresh after branch switch: %v", session.ID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Branch selected.", fiber.Map{
		"selected":  session.Branch(),
		"customers": len(session.Owners()),
	})
}

func Dashboard(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully.", session.Dashboard(time.Now()))
}

// Notifications drains the session's pending toasts
func Notifications(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Notifications fetched successfully.", session.Notes.Drain())
}

// AuditTrail lists the commits confirmed in this session
func AuditTrail(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	audits, err := database.RecentCommits(session.ID, limit)
	if err != nil {
		log.Printf("Error fetching audit trail for %s: %v", session.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch audit trail!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Audit trail fetched successfully.", audits)
}

// Refresh re-reads owners, presence and collections from the backend
func Refresh(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if err := session.Reconcile(c.UserContext()); err != nil && !errors.Is(err, console.ErrStaleRefresh) {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Data refreshed.", nil)
}
