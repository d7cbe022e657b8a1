package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DBPath != "./data/rupeeone.db" {
		t.Errorf("DBPath = %q, want ./data/rupeeone.db", cfg.DBPath)
	}
	if cfg.ConnectAttempts != 5 {
		t.Errorf("ConnectAttempts = %d, want 5", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 100*time.Millisecond {
		t.Errorf("ConnectBackoff = %v, want 100ms", cfg.ConnectBackoff)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RUPEEONE_DB_PATH", "/tmp/other.db")
	t.Setenv("RUPEEONE_CONNECT_ATTEMPTS", "3")
	t.Setenv("RUPEEONE_CONNECT_BACKOFF", "250ms")
	t.Setenv("RUPEEONE_LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.DBPath != "/tmp/other.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.ConnectAttempts != 3 {
		t.Errorf("ConnectAttempts = %d", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 250*time.Millisecond {
		t.Errorf("ConnectBackoff = %v", cfg.ConnectBackoff)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadIgnoresMalformedEnvValues(t *testing.T) {
	t.Setenv("RUPEEONE_CONNECT_ATTEMPTS", "lots")
	t.Setenv("RUPEEONE_CONNECT_BACKOFF", "soon")

	cfg := Load()

	if cfg.ConnectAttempts != 5 {
		t.Errorf("ConnectAttempts = %d, want default 5", cfg.ConnectAttempts)
	}
	if cfg.ConnectBackoff != 100*time.Millisecond {
		t.Errorf("ConnectBackoff = %v, want default 100ms", cfg.ConnectBackoff)
	}
}

func TestValidate(t *testing.T) {
	valid := func(t *testing.T) *Config {
		t.Helper()
		return &Config{
			DBPath:          filepath.Join(t.TempDir(), "test.db"),
			ConnectAttempts: 5,
			ConnectBackoff:  100 * time.Millisecond,
			LogLevel:        "info",
		}
	}

	if err := valid(t).Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty db path", func(c *Config) { c.DBPath = "" }, "database path"},
		{"zero attempts", func(c *Config) { c.ConnectAttempts = 0 }, "connect attempts"},
		{"too many attempts", func(c *Config) { c.ConnectAttempts = 50 }, "connect attempts"},
		{"backoff too small", func(c *Config) { c.ConnectBackoff = time.Millisecond }, "connect backoff"},
		{"backoff too large", func(c *Config) { c.ConnectBackoff = time.Minute }, "connect backoff"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("want validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := &Config{DBPath: "x.db", ConnectAttempts: 0, ConnectBackoff: 0, LogLevel: "bad"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("want validation error")
	}
	for _, want := range []string{"connect attempts", "connect backoff", "log level"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q: %v", want, err)
		}
	}
}
