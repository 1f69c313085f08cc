package middleware

import (
	"github.com/gofiber/fiber/v2"

	"deadstock/apperrors"
)

// CheckRole is a middleware that verifies the user has one of the specified roles.
func CheckRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok {
			return deny(c, fiber.StatusForbidden, apperrors.CodeUnauthorized, "Role not found in token")
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		return deny(c, fiber.StatusForbidden, apperrors.CodeUnauthorized, "Insufficient permissions")
	}
}

// UserID returns the authenticated user set by JWTMiddleware.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("userID").(string)
	return id
}
