// Package config loads and validates application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// LogLevel controls the minimum log level: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the comma-separated list of allowed cross-origin request
	// origins. Use Origins for the parsed list.
	CORSOrigins string `env:"CORS_ORIGINS" env-default:"http://localhost:5173"`

	// MaxBodyBytes caps request body size.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	Store   StoreConfig
	Auth    AuthConfig
	LLM     LLMConfig
	Catalog CatalogConfig
	Planner PlannerConfig
}

// StoreConfig selects the persistence backend. When DatabaseURL is empty the
// service runs in anonymous mode over a directory of JSON files.
type StoreConfig struct {
	DatabaseURL string `env:"DATABASE_URL"`
	LocalDir    string `env:"LOCAL_STORE_DIR" env-default:"./data/trips"`
}

// AuthConfig configures bearer-token authentication for account mode.
type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	JWTIssuer string        `env:"JWT_ISSUER" env-default:"tripplanner"`
	TokenTTL  time.Duration `env:"JWT_TTL" env-default:"24h"`
}

// LLMConfig enables the generative planner. An empty key disables it.
type LLMConfig struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" env-default:"gemini-1.5-flash"`
}

// CatalogConfig tunes the simulated live travel catalog.
type CatalogConfig struct {
	DefaultOrigin string        `env:"DEFAULT_ORIGIN" env-default:"JFK"`
	Latency       time.Duration `env:"CATALOG_LATENCY" env-default:"1s"`
	Timeout       time.Duration `env:"CATALOG_TIMEOUT" env-default:"30s"`
}

// PlannerConfig bounds the in-memory draft sessions.
type PlannerConfig struct {
	DraftTTL          time.Duration `env:"DRAFT_TTL" env-default:"2h"`
	DraftCapacity     int           `env:"DRAFT_CAPACITY" env-default:"1000"`
	PlanRatePerMinute int           `env:"PLAN_RATE_PER_MINUTE" env-default:"20"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming any variable that is missing or malformed.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field rules cleanenv cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.AccountMode() && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when DATABASE_URL is set"))
	}
	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}
	if c.Planner.DraftCapacity < 1 {
		errs = append(errs, errors.New("DRAFT_CAPACITY must be positive"))
	}
	if c.Planner.PlanRatePerMinute < 1 {
		errs = append(errs, errors.New("PLAN_RATE_PER_MINUTE must be positive"))
	}
	if c.MaxBodyBytes < 1 {
		errs = append(errs, errors.New("MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

// AccountMode reports whether trips are stored per account in Postgres.
func (c Config) AccountMode() bool {
	return c.Store.DatabaseURL != ""
}

// Origins returns CORSOrigins as a trimmed slice, ignoring empty entries.
func (c Config) Origins() []string {
	return splitCSV(c.CORSOrigins)
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
