package middleware

import (
	"errors"
	"net/http"

	"finconsole/backend"
	"finconsole/console"
	"finconsole/forms"

	"github.com/gofiber/fiber/v2"
)

// ConsoleErrorResponse maps a console or backend error onto the response
// envelope. data is returned alongside so the front end can re-render.
func ConsoleErrorResponse(c *fiber.Ctx, err error, data interface{}) error {
	var fieldErrs forms.FieldErrors
	if errors.As(err, &fieldErrs) {
		return JsonResponse(c, fiber.StatusUnprocessableEntity, false, fieldErrs.Summary(), data)
	}

	var commitErr *console.CommitError
	if errors.As(err, &commitErr) {
		return JsonResponse(c, backendStatus(commitErr.Err), false, commitErr.Message, data)
	}

	switch {
	case errors.Is(err, console.ErrSessionClosed):
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Session has ended, please login again!", data)
	case errors.Is(err, console.ErrCommitInFlight),
		errors.Is(err, console.ErrFlowBusy),
		errors.Is(err, console.ErrInvalidState),
		errors.Is(err, console.ErrStaleRefresh),
		errors.Is(err, console.ErrAccountExists):
		return JsonResponse(c, fiber.StatusConflict, false, sentence(err), data)
	case errors.Is(err, console.ErrNoAccount),
		errors.Is(err, console.ErrUnknownAccount),
		errors.Is(err, console.ErrHistoryClosed),
		errors.Is(err, backend.ErrNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, sentence(err), data)
	case errors.Is(err, console.ErrAccountInactive):
		return JsonResponse(c, fiber.StatusBadRequest, false, sentence(err), data)
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return JsonResponse(c, backendStatus(err), false, backend.MessageOf(err, "Request to the server failed!"), data)
	}
	var transportErr *backend.TransportError
	if errors.As(err, &transportErr) {
		return JsonResponse(c, fiber.StatusBadGateway, false, "Could not reach the server!", data)
	}
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", data)
}

// backendStatus passes 4xx answers through and reports everything else as a bad gateway.
func backendStatus(err error) int {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode >= http.StatusBadRequest && apiErr.StatusCode < http.StatusInternalServerError {
		return apiErr.StatusCode
	}
	return fiber.StatusBadGateway
}

// sentence turns an error into a toast message.
func sentence(err error) string {
	b := []byte(err.Error())
	if len(b) == 0 {
		return ""
	}
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b) + "!"
}
