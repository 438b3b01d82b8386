package customerValidator

import (
	"encoding/json"
	"errors"

	"finconsole/forms"
	"finconsole/middleware"
	"finconsole/models"
	"finconsole/utils"

	"github.com/gofiber/fiber/v2"
)

// Register validates a multipart customer registration. The customer fields
// come either as a userData JSON part or as plain form fields; identity
// documents are optional and must be images.
func Register() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(models.OwnerRegistration)
		if userData := c.FormValue("userData"); userData != "" {
			if err := json.Unmarshal([]byte(userData), reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid customer details!", nil)
			}
		} else if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		registration := forms.NormalizeOwner(*reqData)
		fieldErrs := forms.ValidateOwner(registration)
		if fieldErrs == nil {
			fieldErrs = forms.FieldErrors{}
		}

		var documents []models.Document
		for _, field := range models.DocumentFields {
			file, err := c.FormFile(field)
			if err != nil {
				continue
			}
			doc, err := utils.ReadUploadedDocument(file, field)
			if err != nil {
				if errors.Is(err, utils.ErrNotImage) {
					fieldErrs[field] = "Only image files are allowed!"
				} else {
					fieldErrs[field] = "Could not read the uploaded file!"
				}
				continue
			}
			documents = append(documents, doc)
		}

		if len(fieldErrs) > 0 {
			return middleware.ValidationErrorResponse(c, fieldErrs)
		}

		c.Locals("registration", registration)
		c.Locals("documents", documents)
		return c.Next()
	}
}
