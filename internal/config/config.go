package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration, sourced from the environment with
// optional .env support for local development.
type Config struct {
	// APIBaseURL is the base URL of the university management API,
	// including the /api prefix (e.g. "http://localhost:5000/api").
	APIBaseURL string

	// SessionFile is the path of the persisted session snapshot. Empty
	// means the default under the user config dir.
	SessionFile string

	HTTPTimeout time.Duration
	LogLevel    slog.Level
}

// LoadConfig reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func LoadConfig() (*Config, error) {
	// Ignore a missing .env; environment variables take precedence anyway.
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:  getEnv("PORTAL_API_BASE_URL", "http://localhost:5000/api"),
		SessionFile: os.Getenv("PORTAL_SESSION_FILE"),
		HTTPTimeout: 15 * time.Second,
		LogLevel:    slog.LevelInfo,
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT %q: %w", v, err)
		}
		cfg.HTTPTimeout = d
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// SessionFilePath resolves the snapshot location: the configured override
// first, then $XDG_CONFIG_HOME/campus-portal/session.json, then
// ~/.config/campus-portal/session.json.
func (c *Config) SessionFilePath() string {
	if c.SessionFile != "" {
		return c.SessionFile
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "campus-portal-session.json")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "campus-portal", "session.json")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
