// ABOUTME: Configuration loader for the Firefly CLI
// ABOUTME: Loads settings from .env and environment variables with defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	APIURL         string // base URL of the Firefly backend
	RequestTimeout int    // seconds, per-request HTTP timeout (default 30)

	// Client behaviour
	RefreshLeeway int  // seconds before token expiry to refresh proactively (default 30)
	DebugLog      bool // write TUI diagnostics to a file in the config dir

	// Storage
	ConfigDir string // where credentials and snapshots are persisted
}

// Load reads configuration from a .env file (if present) and the environment.
// Environment variables take precedence over .env entries.
func Load() (*Config, error) {
	// Missing .env is fine; env vars alone are a valid configuration.
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         ensureScheme(getEnv("FIREFLY_API_URL", "http://localhost:8000")),
		RequestTimeout: getEnvInt("FIREFLY_REQUEST_TIMEOUT", 30),
		RefreshLeeway:  getEnvInt("FIREFLY_REFRESH_LEEWAY", 30),
		DebugLog:       getEnvBool("FIREFLY_DEBUG_LOG", false),
		ConfigDir:      getEnv("FIREFLY_CONFIG_DIR", DefaultConfigDir()),
	}

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("FIREFLY_API_URL is required")
	}
	if cfg.RequestTimeout < 1 || cfg.RequestTimeout > 300 {
		return nil, fmt.Errorf("FIREFLY_REQUEST_TIMEOUT must be between 1 and 300, got %d", cfg.RequestTimeout)
	}
	if cfg.RefreshLeeway < 0 || cfg.RefreshLeeway > 3600 {
		return nil, fmt.Errorf("FIREFLY_REFRESH_LEEWAY must be between 0 and 3600, got %d", cfg.RefreshLeeway)
	}

	return cfg, nil
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "firefly")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "firefly")
}

// ensureScheme prepends https:// when a URL is given without a scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "https://" + url
	}
	return url
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
