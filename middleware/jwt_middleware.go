package middleware

import (
	"context"
	"errors"
	"strings"

	"hrms/models"
	"hrms/services"
	"hrms/utils"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "user"

var (
	errAuthRequired      = errors.New("Authorization required")
	errInvalidAuthFormat = errors.New("Invalid authorization format")
)

// Authenticator resolves a bearer token to the active account behind it
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Protected requires a valid bearer token and stores the account in the request locals
func Protected(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error(), nil)
		}

		user, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if services.IsKind(err, services.KindAuth) {
				return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error(), nil)
			}
			utils.LogError("authenticate", err, map[string]interface{}{"path": c.Path()})
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Internal server error", nil)
		}

		c.Locals(userLocalKey, user)
		c.Locals("userID", user.ID)
		return c.Next()
	}
}

// Authorize restricts a route to the given roles. It must run after Protected.
func Authorize(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization required", nil)
		}
		if err := services.RequireRole(user, roles...); err != nil {
			return utils.ErrorResponse(c, fiber.StatusForbidden, err.Error(), nil)
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated account, or nil outside Protected routes
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userLocalKey).(*models.User)
	return user
}

// bearerToken reads the Authorization header, then the access_token cookie, then ?token=.
// The query form exists for websocket clients that cannot set headers.
func bearerToken(c *fiber.Ctx) (string, error) {
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
			return "", errInvalidAuthFormat
		}
		return tokenParts[1], nil
	}
	if token := c.Cookies("access_token"); token != "" {
		return token, nil
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", errAuthRequired
}
