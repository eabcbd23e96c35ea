package config

import (
	"os"
	"testing"
	"time"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/storage"
)

// TestGetEnv tests the getEnv helper function
func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
	}{
		{
			name:         "returns env value when set",
			key:          "TEST_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
		},
		{
			name:         "returns default when env not set",
			key:          "TEST_VAR_NOT_SET",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvBool tests the getEnvBool helper function
func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		want         bool
	}{
		{
			name:         "returns true for 'true'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "true",
			want:         true,
		},
		{
			name:         "returns true for '1'",
			key:          "TEST_BOOL",
			defaultValue: false,
			envValue:     "1",
			want:         true,
		},
		{
			name:         "returns false for 'false'",
			key:          "TEST_BOOL",
			defaultValue: true,
			envValue:     "false",
			want:         false,
		},
		{
			name:         "returns default when not set",
			key:          "TEST_BOOL_NOT_SET",
			defaultValue: true,
			envValue:     "",
			want:         true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := getEnvBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestGetEnvInt tests the getEnvInt helper function
func TestGetEnvInt(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	if got := getEnvInt("TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt() = %v, want 42", got)
	}
	if got := getEnvInt("TEST_INT_NOT_SET", 7); got != 7 {
		t.Errorf("getEnvInt() = %v, want default 7", got)
	}

	os.Setenv("TEST_INT_BAD", "not-a-number")
	defer os.Unsetenv("TEST_INT_BAD")
	if got := getEnvInt("TEST_INT_BAD", 7); got != 7 {
		t.Errorf("getEnvInt() = %v, want default 7 for invalid value", got)
	}
}

// TestGetEnvDuration tests the getEnvDuration helper function
func TestGetEnvDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "30s")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvDuration("TEST_DURATION", time.Minute); got != 30*time.Second {
		t.Errorf("getEnvDuration() = %v, want 30s", got)
	}
	if got := getEnvDuration("TEST_DURATION_NOT_SET", time.Minute); got != time.Minute {
		t.Errorf("getEnvDuration() = %v, want default 1m", got)
	}
}

// TestParseLogLevel tests log level parsing
func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  observability.LogLevel
	}{
		{"debug", observability.DebugLevel},
		{"info", observability.InfoLevel},
		{"warn", observability.WarnLevel},
		{"warning", observability.WarnLevel},
		{"error", observability.ErrorLevel},
		{"ERROR", observability.ErrorLevel},
		{"bogus", observability.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseLogLevel(tt.input); got != tt.want {
				t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

// TestLoadConfigDefaults verifies defaults load and validate cleanly
func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("default port = %v, want 8080", cfg.Server.Port)
	}
	if cfg.Server.HealthPort != "9090" {
		t.Errorf("default health port = %v, want 9090", cfg.Server.HealthPort)
	}
	if cfg.Storage.Type != "memory" {
		t.Errorf("default storage type = %v, want memory", cfg.Storage.Type)
	}
	if cfg.Auth.Enabled {
		t.Error("auth should be disabled by default")
	}
	if cfg.Observability.MonitorSchedule != "@every 1m" {
		t.Errorf("default monitor schedule = %v", cfg.Observability.MonitorSchedule)
	}
}

// TestLoadConfigFromEnv verifies environment overrides
func TestLoadConfigFromEnv(t *testing.T) {
	os.Setenv("DEPOT_PORT", "8888")
	os.Setenv("DEPOT_STORAGE_TYPE", "sqlite")
	os.Setenv("DEPOT_SQLITE_PATH", "/tmp/depot-test.db")
	os.Setenv("DEPOT_QUERY_TIMEOUT", "3s")
	defer func() {
		os.Unsetenv("DEPOT_PORT")
		os.Unsetenv("DEPOT_STORAGE_TYPE")
		os.Unsetenv("DEPOT_SQLITE_PATH")
		os.Unsetenv("DEPOT_QUERY_TIMEOUT")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Server.Port != "8888" {
		t.Errorf("port = %v, want 8888", cfg.Server.Port)
	}
	if cfg.Storage.Type != "sqlite" {
		t.Errorf("storage type = %v, want sqlite", cfg.Storage.Type)
	}
	if cfg.Storage.SQLitePath != "/tmp/depot-test.db" {
		t.Errorf("sqlite path = %v", cfg.Storage.SQLitePath)
	}
	if cfg.Server.QueryTimeout != 3*time.Second {
		t.Errorf("query timeout = %v, want 3s", cfg.Server.QueryTimeout)
	}
}

// TestValidate tests configuration validation failures
func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{
				Port:         "8080",
				HealthPort:   "9090",
				QueryTimeout: 10 * time.Second,
			},
			Storage: storage.DefaultConfig(),
			Observability: ObservabilityConfig{
				LogLevel:        observability.InfoLevel,
				MonitorSchedule: "@every 1m",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Server.Port = "" }, true},
		{"same ports", func(c *Config) { c.Server.HealthPort = "8080" }, true},
		{"zero query timeout", func(c *Config) { c.Server.QueryTimeout = 0 }, true},
		{"unknown storage type", func(c *Config) { c.Storage.Type = "etcd" }, true},
		{"sqlite without path", func(c *Config) {
			c.Storage.Type = "sqlite"
			c.Storage.SQLitePath = ""
		}, true},
		{"postgres without URL", func(c *Config) { c.Storage.Type = "postgres" }, true},
		{"cache without TTL", func(c *Config) {
			c.Storage.CacheEnabled = true
			c.Storage.CacheTTL = 0
		}, true},
		{"auth without key file", func(c *Config) { c.Auth.Enabled = true }, true},
		{"rate limit without budget", func(c *Config) {
			c.Server.RateLimitEnabled = true
			c.Server.RateLimitPerMin = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
