package middleware

import (
	"log"
	"strings"

	"issuetracker/internal/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AuthRequired for downstream handlers. They are the sole
// mechanism establishing caller identity; there are no cookies or sessions.
const (
	LocalUserID = "user_id"
	LocalEmail  = "email"
)

// AuthRequired is a Fiber middleware that requires a valid bearer token. On
// success it attaches the caller's user ID and email to the request context.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if authHeader == "" || !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, no token",
			})
		}

		tokenString := parts[1]

		claims, err := authService.ValidateToken(tokenString)
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token invalid",
			})
		}

		userID, _ := claims["userId"].(string)
		email, _ := claims["email"].(string)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not authorized, token invalid",
			})
		}

		// Store identity in Fiber context for subsequent handlers
		c.Locals(LocalUserID, userID)
		c.Locals(LocalEmail, email)

		return c.Next()
	}
}

// UserID returns the authenticated caller's user ID set by AuthRequired.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// Email returns the authenticated caller's email set by AuthRequired.
func Email(c *fiber.Ctx) string {
	email, _ := c.Locals(LocalEmail).(string)
	return email
}
