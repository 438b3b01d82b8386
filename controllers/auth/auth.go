package authController

import (
	"errors"
	"log"

	"finconsole/backend"
	"finconsole/config"
	"finconsole/console"
	"finconsole/database"
	"finconsole/middleware"
	"finconsole/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// sessionOptions builds console session settings from the loaded config
func sessionOptions() console.Options {
	cfg := config.AppConfig
	return console.Options{
		OwnerRole:           cfg.OwnerRole,
		DebounceWait:        cfg.SearchDebounce(),
		PresenceConcurrency: cfg.PresenceConcurrency,
		Location:            cfg.Location(),
		Audit:               database.RecordCommit,
	}
}

func publicAdmin(admin models.Admin) models.Admin {
	admin.Token = ""
	return admin
}

// Login authenticates against the backend and opens a console session
func Login(registry *console.Registry, client *backend.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedLogin").(*models.AdminCredentials)
		ctx := c.UserContext()

		admin, err := client.Login(ctx, reqData.Username, reqData.Password)
		if err != nil {
			database.TrackLogin(reqData.Username, "", c.IP(), c.Get("User-Agent"), false)
			var apiErr *backend.APIError
			if errors.As(err, &apiErr) && apiErr.StatusCode < fiber.StatusInternalServerError {
				return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, backend.MessageOf(err, "Invalid username or password!"), nil)
			}
			log.Printf("Error logging in %s: %v", reqData.Username, err)
			return middleware.JsonResponse(c, fiber.StatusBadGateway, false, "Login failed, please try again!", nil)
		}

		sessionID := uuid.NewString()
		session := console.NewSession(sessionID, admin, client.WithToken(admin.Token), sessionOptions())
		registry.Add(session)

		if err := session.Start(ctx); err != nil {
			registry.Remove(sessionID)
			log.Printf("Error starting session for %s: %v", admin.Username, err)
			return middleware.ConsoleErrorResponse(c, err, nil)
		}

		token, err := middleware.GenerateJWT(sessionID, admin)
		if err != nil {
			registry.Remove(sessionID)
			log.Printf("Error generating token for %s: %v", admin.Username, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		database.TrackLogin(admin.Username, sessionID, c.IP(), c.Get("User-Agent"), true)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
			"token":    token,
			"admin":    publicAdmin(admin),
			"branch":   session.Branch(),
			"branches": session.Branches(),
		})
	}
}

// Logout tears the session down; results still in flight are ignored
func Logout(registry *console.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session := middleware.CurrentSession(c)
		registry.Remove(session.ID)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
	}
}

func Me(c *fiber.Ctx) error {
	session := middleware.CurrentSession(c)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session fetched successfully.", fiber.Map{
		"sessionId": session.ID,
		"admin":     publicAdmin(session.Admin),
		"branch":    session.Branch(),
		"startedAt": session.StartedAt,
	})
}

// RegisterAdmin forwards an admin sign-up on behalf of the logged-in admin
func RegisterAdmin(client *backend.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := c.Locals("validatedAdmin").(*models.AdminRegistration)
		session := middleware.CurrentSession(c)

		ctx, done := session.Bind(c.UserContext())
		defer done()
		if err := client.WithToken(session.Admin.Token).RegisterAdmin(ctx, *reqData); err != nil {
			log.Printf("Error registering admin %s: %v", reqData.Username, err)
			return middleware.ConsoleErrorResponse(c, err, nil)
		}

		session.Notes.Success("Admin registered successfully!")
		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Admin registered successfully.", fiber.Map{
			"username": reqData.Username,
		})
	}
}
