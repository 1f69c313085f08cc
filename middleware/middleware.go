package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"deadstock/apperrors"
	"deadstock/config"
	"deadstock/models"
	"deadstock/utils"
)

// JWTMiddleware validates the JWT token provided in the Authorization header.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return deny(c, fiber.StatusUnauthorized, apperrors.CodeUnauthorized, "Missing or malformed JWT")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return deny(c, fiber.StatusUnauthorized, apperrors.CodeUnauthorized, "Missing or malformed JWT")
	}

	tokenStr := parts[1]
	claims := &models.JwtClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(config.AppConfig.Auth.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return deny(c, fiber.StatusUnauthorized, apperrors.CodeUnauthorized, "Invalid or expired JWT")
	}

	c.Locals("userID", claims.UserID)
	c.Locals("userRole", claims.Role)

	return c.Next()
}

// ShopkeeperRequired is a middleware function that checks if the user has a 'shopkeeper' role.
func ShopkeeperRequired(c *fiber.Ctx) error {
	return CheckRole(utils.RoleShopkeeper)(c)
}

func deny(c *fiber.Ctx, status int, code apperrors.Code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"error":   models.ErrorBody{Code: string(code), Message: message},
	})
}
