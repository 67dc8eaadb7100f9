package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
)

// AuthMiddleware resolves the bearer session token to a user and stores it
// in c.Locals("user"). Runs before every handler that needs req.user.
func AuthMiddleware(authService *service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Authorization header is required"))
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid authorization header format"))
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		user, err := authService.ResolveToken(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("Invalid or expired session"))
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// CurrentUser fetches the authenticated user from the request context.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals("user").(*models.User)
	return user
}
