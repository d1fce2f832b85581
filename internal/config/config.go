package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// Environment variables read by Load
const (
	EnvBaseURL  = "WAYBACK_CDX_BASE_URL"
	EnvTimeout  = "WAYBACK_TIMEOUT"
	EnvSites    = "WAYBACK_SITES"
	EnvLogLevel = "WAYBACK_LOG_LEVEL"
)

// Config holds settings shared by every command. Flags override these values.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	Sites    []string // raw "domain[=label]" entries
	LogLevel log.Level
}

// Load reads a .env file if one exists, then the process environment
func Load() (Config, error) {
	// Silently ignore a missing .env
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		BaseURL:  strings.TrimSpace(getenv(EnvBaseURL)),
		LogLevel: log.InfoLevel,
	}

	if raw := strings.TrimSpace(getenv(EnvTimeout)); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s: must be positive", EnvTimeout)
		}
		cfg.Timeout = d
	}

	for _, s := range strings.Split(getenv(EnvSites), ",") {
		if s = strings.TrimSpace(s); s != "" {
			cfg.Sites = append(cfg.Sites, s)
		}
	}

	if raw := strings.TrimSpace(getenv(EnvLogLevel)); raw != "" {
		level, err := log.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// NewLogger returns the stderr logger used by every command
func (c Config) NewLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           c.LogLevel,
		ReportTimestamp: true,
	})
}
