package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Server.BatchConcurrency)
	assert.Equal(t, "mumbai", cfg.Engine.DefaultLocation)
	assert.Equal(t, "all_year", cfg.Engine.DefaultSeasonality)
	assert.Equal(t, 90, cfg.Engine.UpcomingDays)
	assert.False(t, cfg.Gemini.Enabled)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, 8*time.Second, cfg.Gemini.Timeout)
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	yml := "server:\n  port: 8080\nlogging:\n  level: debug\nengine:\n  default_location: delhi\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yml), 0o600))

	t.Setenv("PORT", "9090")
	t.Setenv("GEMINI_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port, "environment wins over file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "delhi", cfg.Engine.DefaultLocation)
	assert.Equal(t, 3*time.Second, cfg.Gemini.Timeout)
}

func TestGeminiKeyEnablesNarrative(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("GEMINI_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.Gemini.Enabled)
	assert.Equal(t, "test-key", cfg.Gemini.APIKey)
}

func TestDatabaseRequiresJWTSecret(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://localhost/deadstock")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.jwt_secret")
}

func TestValidate(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	cfg.Engine.UpcomingDays = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.port")
	assert.Contains(t, err.Error(), "engine.upcoming_days")
}
