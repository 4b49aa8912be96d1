package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

var ErrMissingSetting = errors.New("missing required setting")

// Store backends
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
	BackendMemory   = "memory"
)

// Config holds all configuration for the application.
type Config struct {
	Port     string
	Env      string
	BasePath string
	Salt     string

	StoreBackend string
	RedisURL     string
	DatabaseURL  string
	SQLitePath   string

	FrontendDir string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables, after loading a
// .env file if one is present. A missing SALT is fatal.
func Load() (*Config, error) {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "3000"),
		Env:              getEnv("ENV", "development"),
		BasePath:         strings.TrimRight(os.Getenv("BASE_PATH"), "/"),
		Salt:             os.Getenv("SALT"),
		StoreBackend:     strings.ToLower(getEnv("STORE_BACKEND", BackendRedis)),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       getEnv("SQLITE_PATH", "./data/escaperoom.db"),
		FrontendDir:      getEnv("FRONTEND_DIR", "frontend"),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	// Parse whitelist (comma-separated IPs or CIDRs)
	if whitelist := os.Getenv("RATE_LIMIT_WHITELIST"); whitelist != "" {
		for _, entry := range strings.Split(whitelist, ",") {
			entry = strings.TrimSpace(entry)
			if entry != "" {
				cfg.RateLimitWhitelist = append(cfg.RateLimitWhitelist, entry)
			}
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.Salt == "" {
		return fmt.Errorf("%w: SALT", ErrMissingSetting)
	}

	switch c.StoreBackend {
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL", ErrMissingSetting)
		}
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
		}
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		return fmt.Errorf("BASE_PATH must start with /, got %q", c.BasePath)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
