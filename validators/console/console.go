package consoleValidator

import (
	"encoding/json"
	"strconv"
	"strings"

	"finconsole/console"
	"finconsole/forms"
	"finconsole/middleware"
	"finconsole/models"

	"github.com/gofiber/fiber/v2"
)

// Kind resolves the :kind route parameter.
func Kind() fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind, err := models.ParseAccountKind(c.Params("kind"))
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Unknown account type!", nil)
		}
		c.Locals("kind", kind)
		return c.Next()
	}
}

// Form reads a form body as typed by the admin. Numbers are kept as their
// shortest decimal text so "4.5" and 4.5 validate alike.
func Form() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body map[string]interface{}
		if len(c.Body()) > 0 {
			if err := json.Unmarshal(c.Body(), &body); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if nested, ok := body["form"].(map[string]interface{}); ok {
			body = nested
		}

		raw := forms.Raw{}
		for field, value := range body {
			switch v := value.(type) {
			case nil:
				raw[field] = ""
			case string:
				raw[field] = v
			case float64:
				raw[field] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				raw[field] = strconv.FormatBool(v)
			default:
				return middleware.ValidationErrorResponse(c, map[string]string{field: "Invalid value!"})
			}
		}

		c.Locals("form", raw)
		return c.Next()
	}
}

// OpenFlowRequest is the body of POST /console/accounts/:kind/flow/open.
type OpenFlowRequest struct {
	Action  string `json:"action"`
	OwnerID string `json:"ownerId"`
}

// OpenFlow validator middleware
func OpenFlow() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(OpenFlowRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Action = strings.ToLower(strings.TrimSpace(reqData.Action))
		switch reqData.Action {
		case console.ActionAdd, console.ActionUpdate, console.ActionDelete:
		default:
			errors["action"] = "Action must be one of add, update, delete!"
		}
		reqData.OwnerID = strings.TrimSpace(reqData.OwnerID)
		if reqData.OwnerID == "" {
			errors["ownerId"] = "Customer is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("openFlow", reqData)
		return c.Next()
	}
}

// Search reads term and field from the body, or from the query string on GET.
func Search() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Term  string `json:"term" query:"term"`
			Field string `json:"field" query:"field"`
		})
		var err error
		if c.Method() == fiber.MethodGet {
			err = c.QueryParser(reqData)
		} else {
			err = c.BodyParser(reqData)
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		field, err := console.ParseSearchField(reqData.Field)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"field": "Search field must be one of name, accountNumber, mobile!"})
		}

		c.Locals("query", console.Query{Term: reqData.Term, Field: field})
		return c.Next()
	}
}

// Branch validator middleware
func Branch() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Branch string `json:"branch"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		c.Locals("branch", strings.TrimSpace(reqData.Branch))
		return c.Next()
	}
}

// AccountNumber validator middleware
func AccountNumber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			AccountNumber string `json:"accountNumber"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.AccountNumber = strings.TrimSpace(reqData.AccountNumber)
		if reqData.AccountNumber == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{"accountNumber": "Account number is required!"})
		}
		c.Locals("accountNumber", reqData.AccountNumber)
		return c.Next()
	}
}

// HistoryFilter reads fromDate, toDate and payMode in the session's timezone.
// It must run after SessionMiddleware.
func HistoryFilter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			FromDate string `json:"fromDate" query:"fromDate"`
			ToDate   string `json:"toDate" query:"toDate"`
			PayMode  string `json:"payMode" query:"payMode"`
		})
		var err error
		if c.Method() == fiber.MethodGet {
			err = c.QueryParser(reqData)
		} else if len(c.Body()) > 0 {
			err = c.BodyParser(reqData)
		}
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		mode := strings.TrimSpace(reqData.PayMode)
		if mode != "" && !strings.EqualFold(mode, "all") {
			if _, ok := models.ParsePayMode(mode); !ok {
				errors["payMode"] = "Payment mode must be one of Cash, IMPS, Cheque!"
			}
		}

		filter, err := console.ParseHistoryFilter(reqData.FromDate, reqData.ToDate, mode, middleware.CurrentSession(c).Location())
		if err != nil {
			errors["date"] = "Dates must be in YYYY-MM-DD format!"
		}
		if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
			errors["toDate"] = "To date cannot be before from date!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("historyFilter", filter)
		return c.Next()
	}
}
