package middleware

import (
	"fmt"
	"strings"
	"time"

	"finconsole/config"
	"finconsole/console"
	"finconsole/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Locals keys set by SessionMiddleware.
const (
	LocalSession = "session"
	LocalRole    = "role"
)

// GenerateJWT issues the console token for a session
func GenerateJWT(sessionID string, admin models.Admin) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sid":      sessionID,
		"username": admin.Username,
		"role":     admin.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(config.AppConfig.SessionTTL()).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// parseToken validates the bearer token and returns its claims
func parseToken(authHeader string) (jwt.MapClaims, string) {
	if authHeader == "" {
		return nil, "Missing or invalid Authorization header"
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, "Invalid Authorization header format"
	}
	tokenString := authHeader[len("Bearer "):]

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return nil, "Invalid or expired token"
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, "Invalid token payload"
	}
	if sid, _ := claims["sid"].(string); sid == "" {
		return nil, "Invalid token payload"
	}
	return claims, ""
}

// SessionMiddleware resolves the console session named by the token. A valid
// token whose session was logged out or expired is rejected.
func SessionMiddleware(registry *console.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentSession(c) != nil {
			return c.Next()
		}
		claims, problem := parseToken(c.Get("Authorization"))
		if problem != "" {
			return JsonResponse(c, fiber.StatusUnauthorized, false, problem, nil)
		}

		session, ok := registry.Get(claims["sid"].(string))
		if !ok || session.Closed() {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Session has ended, please login again!", nil)
		}

		role, _ := claims["role"].(string)
		c.Locals(LocalSession, session)
		c.Locals(LocalRole, role)
		return c.Next()
	}
}

// CurrentSession returns the session stored by SessionMiddleware.
func CurrentSession(c *fiber.Ctx) *console.Session {
	s, _ := c.Locals(LocalSession).(*console.Session)
	return s
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}
