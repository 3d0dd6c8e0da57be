// Package config contains everything related to configuration
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	APIKey          string
	BaseURL         string
	CachePath       string
	LogPath         string
	RefreshInterval time.Duration
	LookbackDays    int
	FetchLimit      int
	Offline         bool
}

// Default values
const (
	defaultBaseURL         = "https://api.vapi.ai"
	defaultRefreshInterval = 5 * time.Minute
	defaultLookbackDays    = 365
	defaultFetchLimit      = 1000
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			break
		}
	}

	cfg := &Config{
		APIKey:          getEnvString("VAPI_API_KEY", ""),
		BaseURL:         getEnvString("VAPI_BASE_URL", defaultBaseURL),
		CachePath:       getEnvString("CACHE_DB_PATH", DefaultCachePath()),
		LogPath:         getEnvString("LOG_PATH", DefaultLogPath()),
		RefreshInterval: getEnvDuration("REFRESH_INTERVAL", defaultRefreshInterval),
		LookbackDays:    getEnvInt("LOOKBACK_DAYS", defaultLookbackDays),
		FetchLimit:      getEnvInt("FETCH_LIMIT", defaultFetchLimit),
		Offline:         getEnvBool("OFFLINE", false),
	}

	if cfg.APIKey == "" && !cfg.Offline {
		return nil, fmt.Errorf("VAPI_API_KEY is required (set via env or .env, or run with OFFLINE=1)")
	}

	if err := ensureDir(filepath.Dir(cfg.CachePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "vapi-calls-tui", ".env"),
			filepath.Join(home, ".vapi", ".env"),
		)
	}

	return paths
}

// DefaultCachePath returns the default cache database location: a well-known
// per-user temporary path shared by every process instance.
func DefaultCachePath() string {
	return filepath.Join(os.TempDir(), "vapi_calls.db")
}

// DefaultLogPath returns the default log file location.
func DefaultLogPath() string {
	return filepath.Join(os.TempDir(), "vapi_calls.log")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "5m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
