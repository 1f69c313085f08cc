package handlers

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deadstock/apperrors"
	"deadstock/config"
	"deadstock/models"
)

func TestFailMasksInternalErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		contains string
	}{
		{"validation", apperrors.InputValidation("price", "price must be greater than or equal to 0"), 400, `"field":"price"`},
		{"not found", apperrors.NotFound("Product not found"), 404, `"Product not found"`},
		{"aggregate", apperrors.AggregateFailure("health", errors.New("boom")), 500, `"AGGREGATE_FAILURE"`},
		{"plain error", errors.New("pq: password authentication failed"), 500, `"internal error"`},
		{"collaborator", apperrors.CollaboratorUnavailable("gemini", errors.New("quota")), 500, `"INTERNAL"`},
		{"ledger disabled", errLedgerDisabled, 503, `"ledger is not configured"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, tt.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), `"status":"error"`)
			assert.Contains(t, string(body), tt.contains)
			assert.NotContains(t, string(body), "password authentication")
		})
	}
}

func filterFor(t *testing.T, query string) (models.HistoryFilter, error) {
	t.Helper()
	var f models.HistoryFilter
	var ferr error
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		f, ferr = historyFilter(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/?"+query, nil))
	require.NoError(t, err)
	return f, ferr
}

func TestHistoryFilter(t *testing.T) {
	f, err := filterFor(t, "sku=%20SKU-2025-0001%20&start=2025-10-01&end=2025-10-31")
	require.NoError(t, err)
	assert.Equal(t, "SKU-2025-0001", f.SKU)
	assert.Equal(t, time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), *f.Start)
	assert.Equal(t, time.Date(2025, time.October, 31, 23, 59, 59, 999999999, time.UTC), *f.End, "a bare end date covers the day")

	f, err = filterFor(t, "end=2025-10-31T10:00:00Z")
	require.NoError(t, err)
	assert.Nil(t, f.Start)
	assert.Equal(t, 10, f.End.Hour())

	_, err = filterFor(t, "start=yesterday")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInputValidation))

	_, err = filterFor(t, "start=2025-10-31&end=2025-10-01")
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, "end", appErr.Field)
}

func TestQueryInt(t *testing.T) {
	app := fiber.New()
	var got int
	var gotErr error
	app.Get("/", func(c *fiber.Ctx) error {
		got, gotErr = queryInt(c, "days", 90)
		return nil
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.NoError(t, gotErr)
	assert.Equal(t, 90, got)

	_, err = app.Test(httptest.NewRequest("GET", "/?days=14", nil))
	require.NoError(t, err)
	assert.Equal(t, 14, got)

	_, err = app.Test(httptest.NewRequest("GET", "/?days=-3", nil))
	require.NoError(t, err)
	assert.True(t, apperrors.HasCode(gotErr, apperrors.CodeInputValidation))
}

func TestCreateJWTNormalizesRole(t *testing.T) {
	config.AppConfig.Auth = config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig.Auth = config.AuthConfig{} })
	now := time.Now()

	signed, err := createJWT("ravi", " Shopkeeper ", now)
	require.NoError(t, err)

	claims := &models.JwtClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi", claims.UserID)
	assert.Equal(t, "shopkeeper", claims.Role)
	assert.Equal(t, now.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())

	_, err = createJWT("ravi", "admin", now)
	assert.ErrorIs(t, err, errUnknownRole)
	_, err = createJWT("ravi", "", now)
	assert.ErrorIs(t, err, errUnknownRole)
}
