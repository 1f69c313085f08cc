package handlers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"deadstock/apperrors"
	"deadstock/config"
	"deadstock/logging"
	"deadstock/models"
	"deadstock/utils"
	"deadstock/validation"
)

// HandleRegister creates a shopkeeper account in the ledger.
// POST /api/v1/auth/register
func (h *Handler) HandleRegister(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	var req models.RegisterShopkeeperRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	req.UserID = strings.TrimSpace(req.UserID)
	req.Email = strings.TrimSpace(req.Email)
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	shopkeeper, err := ledger.RegisterShopkeeper(c.UserContext(), req)
	if err != nil {
		return fail(c, err)
	}
	return success(c, fiber.StatusCreated, shopkeeper)
}

// HandleLogin authenticates a shopkeeper and returns a JWT token.
// POST /api/v1/auth/login
func (h *Handler) HandleLogin(c *fiber.Ctx) error {
	ledger, err := h.ledger()
	if err != nil {
		return fail(c, err)
	}

	var req models.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return fail(c, err)
	}
	if err := validation.ValidateStruct(req); err != nil {
		return fail(c, err)
	}

	shopkeeper, err := ledger.Authenticate(c.UserContext(), strings.TrimSpace(req.UserID), req.Password)
	if err != nil {
		return fail(c, err)
	}

	token, err := createJWT(shopkeeper.UserID, shopkeeper.Role, time.Now())
	if errors.Is(err, errUnknownRole) {
		logging.Warn().Str("user_id", shopkeeper.UserID).Str("role", shopkeeper.Role).Msg("[AUTH] login refused for unknown role")
		return fail(c, apperrors.Unauthorized("Account role is not allowed to sign in"))
	}
	if err != nil {
		logging.Error().Err(err).Str("user_id", shopkeeper.UserID).Msg("[AUTH] could not sign token")
		return fail(c, apperrors.Internal(err, "Could not sign token"))
	}

	return success(c, fiber.StatusOK, fiber.Map{"accessToken": token, "user": shopkeeper})
}

// --- Helper Functions ---

var errUnknownRole = errors.New("unknown role")

// createJWT signs a token for userID. The role is normalized first; roles outside
// utils.ValidUserRoles are refused.
func createJWT(userID, role string, now time.Time) (string, error) {
	role, ok := utils.ValidateAndNormalizeRole(role)
	if !ok {
		return "", fmt.Errorf("%w %q", errUnknownRole, role)
	}
	ttl := config.AppConfig.Auth.TokenTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	claims := models.JwtClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.Auth.JWTSecret))
}
