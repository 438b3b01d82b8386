package collectionController

import (
	"bytes"
	"fmt"
	"log"
	"strings"

	"finconsole/console"
	"finconsole/forms"
	"finconsole/middleware"
	"finconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// List returns the daily collection accounts of the selected branch
func List(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Collection accounts fetched successfully.", session.Collections().Accounts())
}

func Reload(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	if err := session.LoadCollections(c.UserContext()); err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Collection accounts refreshed.", session.Collections().Accounts())
}

func PayState(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form state fetched.", middleware.CurrentSession(c).Payments().Snapshot())
}

func OpenPay(c *fiber.Ctx) error {
	snap, err := middleware.CurrentSession(c).Payments().OpenPay(c.Locals("accountNumber").(string))
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form opened.", snap)
}

func ValidatePay(c *fiber.Ctx) error {
	snap, errs := middleware.CurrentSession(c).Payments().Validate(c.Locals("form").(forms.Raw))
	if errs != nil {
		return middleware.ConsoleErrorResponse(c, errs, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form is valid.", snap)
}

func SubmitPay(c *fiber.Ctx) error {
	snap, err := middleware.CurrentSession(c).Payments().Submit(c.Locals("form").(forms.Raw))
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Please review and confirm.", snap)
}

func BackPay(c *fiber.Ctx) error {
	snap, err := middleware.CurrentSession(c).Payments().Back()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form reopened.", snap)
}

func CancelPay(c *fiber.Ctx) error {
	snap, err := middleware.CurrentSession(c).Payments().Cancel()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Form closed.", snap)
}

// ConfirmPay posts the payment once
func ConfirmPay(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	ctx, done := session.Bind(c.UserContext())
	defer done()

	snap, err := session.Payments().Confirm(ctx)
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, snap)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, snap.Message, snap)
}

func historyPayload(account interface{}, filter console.HistoryFilter, rows interface{}) fiber.Map {
	return fiber.Map{
		"account":      account,
		"filter":       filter,
		"transactions": rows,
	}
}

// OpenHistory opens the history modal of an account with no filter applied
func OpenHistory(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	account, rows, err := session.OpenHistory(c.Params("accountNumber"))
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history fetched successfully.", historyPayload(account, console.HistoryFilter{}, rows))
}

func History(c *fiber.Ctx) error {
	account, filter, rows, err := middleware.CurrentSession(c).History().Rows()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history fetched successfully.", historyPayload(account, filter, rows))
}

func FilterHistory(c *fiber.Ctx) error {
	history := middleware.CurrentSession(c).History()
	if _, err := history.Apply(c.Locals("historyFilter").(console.HistoryFilter)); err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return History(c)
}

func ClearHistory(c *fiber.Ctx) error {
	history := middleware.CurrentSession(c).History()
	if _, err := history.Clear(); err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}
	return History(c)
}

func CloseHistory(c *fiber.Ctx) error {
	middleware.CurrentSession(c).History().Close()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction history closed.", nil)
}

// ExportHistory downloads the filtered history as PDF or XLSX
func ExportHistory(c *fiber.Ctx) error {
	account, filter, rows, err := middleware.CurrentSession(c).History().Rows()
	if err != nil {
		return middleware.ConsoleErrorResponse(c, err, nil)
	}

	format := strings.ToLower(c.Query("format", utils.ExportPDF))
	contentType, err := utils.ExportContentType(format)
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"format": "Format must be pdf or xlsx!"})
	}

	var buf bytes.Buffer
	report := utils.HistoryReport{Account: account, FilterLabel: filter.Label(), Transactions: rows}
	if err := utils.WriteHistory(&buf, format, report); err != nil {
		log.Printf("Error exporting history of %s: %v", account.AccountNumber, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to export transaction history!", nil)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="history-%s.%s"`, account.AccountNumber, format))
	return c.Send(buf.Bytes())
}
