package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// Load builds the configuration from defaults, an optional YAML file and the environment,
// in increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// File and environment values are collected apart so explicit switches can be told from defaults.
	user := koanf.New(".")
	if path := findConfigFile(); path != "" {
		if err := user.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := user.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.Merge(user); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// A database URL or Gemini key switches the feature on unless it is set explicitly.
	if cfg.Database.URL != "" && !user.Exists("database.enabled") {
		cfg.Database.Enabled = true
	}
	if cfg.Gemini.APIKey != "" && !user.Exists("gemini.enabled") {
		cfg.Gemini.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"port":                   "server.port",
	"body_limit":             "server.body_limit",
	"read_timeout":           "server.read_timeout",
	"batch_concurrency":      "server.batch_concurrency",
	"database_url":           "database.url",
	"database_enabled":       "database.enabled",
	"gemini_enabled":         "gemini.enabled",
	"gemini_api_key":         "gemini.api_key",
	"google_api_key":         "gemini.api_key",
	"gemini_model":           "gemini.model",
	"gemini_timeout":         "gemini.timeout",
	"gemini_rate_per_second": "gemini.rate_per_second",
	"gemini_burst":           "gemini.burst",
	"gemini_breaker_timeout": "gemini.breaker_timeout",
	"gemini_breaker_trips":   "gemini.breaker_trips",
	"log_level":              "logging.level",
	"log_format":             "logging.format",
	"log_caller":             "logging.caller",
	"jwt_secret":             "auth.jwt_secret",
	"jwt_token_ttl":          "auth.token_ttl",
	"reference_dir":          "reference.dir",
	"default_location":       "engine.default_location",
	"default_seasonality":    "engine.default_seasonality",
	"festival_upcoming_days": "engine.upcoming_days",
}

// envTransformFunc maps flat environment names onto koanf paths.
// Unknown variables map to "" and are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
