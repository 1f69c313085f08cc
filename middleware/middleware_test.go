package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadstock/config"
	"deadstock/metrics"
	"deadstock/models"
)

// Helper to create an app with a pre-local middleware that sets userRole
func makeAppWithRole(role string, check func(*fiber.Ctx) error) *fiber.App {
	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		c.Locals("userRole", role)
		return c.Next()
	})

	app.Use(check)

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.Status(200).SendString("ok")
	})

	return app
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name  string
		role  string
		check fiber.Handler
		want  int
	}{
		{"shopkeeper allowed", "shopkeeper", ShopkeeperRequired, 200},
		{"admin denied", "admin", ShopkeeperRequired, 403},
		{"unknown role denied", "merchant", ShopkeeperRequired, 403},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := makeAppWithRole(tt.role, tt.check)
			resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestCheckRoleWithoutRole(t *testing.T) {
	app := fiber.New()
	app.Get("/test", CheckRole("shopkeeper"), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func signedToken(t *testing.T, secret string, method jwt.SigningMethod, expires time.Time) string {
	t.Helper()
	claims := models.JwtClaims{
		UserID: "ravi-textiles",
		Role:   "shopkeeper",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestJWTMiddleware(t *testing.T) {
	config.AppConfig.Auth.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.Auth.JWTSecret = "" })

	app := fiber.New()
	app.Get("/me", JWTMiddleware, ShopkeeperRequired, func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	valid := signedToken(t, "test-secret", jwt.SigningMethodHS256, time.Now().Add(time.Hour))
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", 401},
		{"not bearer", "Token " + valid, 401},
		{"wrong secret", "Bearer " + signedToken(t, "other", jwt.SigningMethodHS256, time.Now().Add(time.Hour)), 401},
		{"expired", "Bearer " + signedToken(t, "test-secret", jwt.SigningMethodHS256, time.Now().Add(-time.Hour)), 401},
		{"valid", "Bearer " + valid, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == 200 {
				body, _ := io.ReadAll(resp.Body)
				assert.Equal(t, "ravi-textiles", string(body))
			}
		})
	}
}

func TestRequestMetrics(t *testing.T) {
	app := fiber.New()
	app.Use(RequestMetrics)
	app.Get("/api/v1/locations/:name", func(c *fiber.Ctx) error { return c.SendStatus(204) })

	resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/locations/pune", nil))
	require.NoError(t, err)
	assert.Equal(t, 204, resp.StatusCode)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.HTTPRequestDuration), 1)
}
