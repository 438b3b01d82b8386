package authValidator

import (
	"strings"

	"finconsole/forms"
	"finconsole/middleware"
	"finconsole/models"

	"github.com/gofiber/fiber/v2"
)

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.AdminCredentials)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		reqData.Username = strings.TrimSpace(reqData.Username)
		if reqData.Username == "" {
			errors["username"] = "Username is required!"
		}
		if reqData.Password == "" {
			errors["password"] = "Password is required!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

// RegisterAdmin validator middleware
func RegisterAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.AdminRegistration)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errs := forms.ValidateAdmin(*reqData); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedAdmin", reqData)
		return c.Next()
	}
}
