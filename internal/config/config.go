package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config carries everything the process needs at startup. Values come from
// the environment with sensible single-user-desktop defaults.
type Config struct {
	// Database
	DBPath string

	// Connection retry policy
	ConnectAttempts int
	ConnectBackoff  time.Duration

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		DBPath:          getEnv("RUPEEONE_DB_PATH", "./data/rupeeone.db"),
		ConnectAttempts: getEnvInt("RUPEEONE_CONNECT_ATTEMPTS", 5),
		ConnectBackoff:  getEnvDuration("RUPEEONE_CONNECT_BACKOFF", 100*time.Millisecond),
		LogLevel:        getEnv("RUPEEONE_LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	} else {
		dir := filepath.Dir(c.DBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.ConnectAttempts < 1 {
		errs = append(errs, fmt.Sprintf("invalid connect attempts %d: must be at least 1", c.ConnectAttempts))
	} else if c.ConnectAttempts > 20 {
		errs = append(errs, fmt.Sprintf("invalid connect attempts %d: must be at most 20", c.ConnectAttempts))
	}

	if c.ConnectBackoff < 10*time.Millisecond {
		errs = append(errs, fmt.Sprintf("invalid connect backoff %v: must be at least 10ms", c.ConnectBackoff))
	} else if c.ConnectBackoff > 10*time.Second {
		errs = append(errs, fmt.Sprintf("invalid connect backoff %v: must be at most 10s", c.ConnectBackoff))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
