package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds application configuration.
// AppConfig keeps the loaded value reachable for middleware and handlers.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Gemini    GeminiConfig    `koanf:"gemini"`
	Logging   LoggingConfig   `koanf:"logging"`
	Auth      AuthConfig      `koanf:"auth"`
	Reference ReferenceConfig `koanf:"reference"`
	Engine    EngineConfig    `koanf:"engine"`
}

type ServerConfig struct {
	Port             int           `koanf:"port"`
	BodyLimit        int           `koanf:"body_limit"`
	ReadTimeout      time.Duration `koanf:"read_timeout"`
	BatchConcurrency int           `koanf:"batch_concurrency"`
}

type DatabaseConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
}

type GeminiConfig struct {
	Enabled        bool          `koanf:"enabled"`
	APIKey         string        `koanf:"api_key"`
	Model          string        `koanf:"model"`
	Timeout        time.Duration `koanf:"timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"`
	Burst          int           `koanf:"burst"`
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
	BreakerTrips   uint32        `koanf:"breaker_trips"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

type AuthConfig struct {
	JWTSecret string        `koanf:"jwt_secret"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// ReferenceConfig points at an optional directory overriding the embedded reference tables.
type ReferenceConfig struct {
	Dir string `koanf:"dir"`
}

type EngineConfig struct {
	DefaultLocation    string `koanf:"default_location"`
	DefaultSeasonality string `koanf:"default_seasonality"`
	UpcomingDays       int    `koanf:"upcoming_days"`
}

// AppConfig holds the application-wide configuration.
var AppConfig Config

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:             3000,
			BodyLimit:        4 * 1024 * 1024,
			ReadTimeout:      15 * time.Second,
			BatchConcurrency: 8,
		},
		Database: DatabaseConfig{
			Enabled: false,
		},
		Gemini: GeminiConfig{
			Enabled:        false,
			Model:          "gemini-1.5-flash",
			Timeout:        8 * time.Second,
			RatePerSecond:  2,
			Burst:          4,
			BreakerTimeout: time.Minute,
			BreakerTrips:   5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Auth: AuthConfig{
			TokenTTL: 72 * time.Hour,
		},
		Engine: EngineConfig{
			DefaultLocation:    "mumbai",
			DefaultSeasonality: "all_year",
			UpcomingDays:       90,
		},
	}
}

// Validate rejects configurations the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}
	if c.Server.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("server.batch_concurrency must be positive"))
	}
	if c.Gemini.Enabled {
		if c.Gemini.APIKey == "" {
			errs = append(errs, errors.New("gemini.api_key is required when gemini is enabled"))
		}
		if c.Gemini.Timeout <= 0 {
			errs = append(errs, errors.New("gemini.timeout must be positive"))
		}
	}
	if c.Database.Enabled {
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required when the ledger is enabled"))
		}
		if c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("auth.jwt_secret is required when the ledger is enabled"))
		}
	}
	if c.Engine.UpcomingDays <= 0 {
		errs = append(errs, errors.New("engine.upcoming_days must be positive"))
	}
	return errors.Join(errs...)
}
