package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finconsole/config"
	"finconsole/console"
	"finconsole/models"
)

func setup(t *testing.T) (*fiber.App, *console.Registry) {
	config.AppConfig = &config.Config{JWTKey: "test-secret", SessionTTLHours: 1}
	registry := console.NewRegistry()
	t.Cleanup(registry.CloseAll)

	app := fiber.New()
	app.Get("/me", SessionMiddleware(registry), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", CurrentSession(c).Admin.Username)
	})
	app.Get("/admin-only", SessionMiddleware(registry), RequireRole("SUPER_ADMIN"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, true, "ok", nil)
	})
	return app, registry
}

func call(t *testing.T, app *fiber.App, path, token string) (int, map[string]interface{}) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestSessionMiddlewareResolvesSession(t *testing.T) {
	app, registry := setup(t)
	admin := models.Admin{Username: "admin", Role: "ADMIN"}
	registry.Add(console.NewSession("S1", admin, nil, console.Options{}))

	token, err := GenerateJWT("S1", admin)
	require.NoError(t, err)

	status, body := call(t, app, "/me", token)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "admin", body["data"])

	status, body = call(t, app, "/admin-only", token)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, false, body["status"])

	registry.Remove("S1")
	status, body = call(t, app, "/me", token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Session has ended, please login again!", body["message"])
}

func TestSessionMiddlewareRejectsBadTokens(t *testing.T) {
	app, _ := setup(t)

	status, body := call(t, app, "/me", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Missing or invalid Authorization header", body["message"])

	status, _ = call(t, app, "/me", "not-a-jwt")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sid": "S1"})
	signed, err := forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	status, body = call(t, app, "/me", signed)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid or expired token", body["message"])

	noSession := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"username": "admin"})
	signed, err = noSession.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	status, body = call(t, app, "/me", signed)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token payload", body["message"])
}

func TestRequireRoleAllowsMatchingRole(t *testing.T) {
	app, registry := setup(t)
	admin := models.Admin{Username: "root", Role: "super_admin"}
	registry.Add(console.NewSession("S9", admin, nil, console.Options{}))
	token, err := GenerateJWT("S9", admin)
	require.NoError(t, err)

	status, _ := call(t, app, "/admin-only", token)
	assert.Equal(t, fiber.StatusOK, status)
}
