package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/storage"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Storage configuration
	Storage storage.Config

	// Authentication configuration
	Auth AuthConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	// Per-request budget for query execution
	QueryTimeout time.Duration

	// Rate limiting
	RateLimitEnabled bool
	RateLimitPerMin  int

	// Health/metrics server (separate port for k8s probes)
	HealthPort string
}

// AuthConfig holds API key authentication settings
type AuthConfig struct {
	// Enabled turns on API key checking; when false all requests pass
	Enabled bool
	// KeyFile is the path to the "username:key" credential file
	KeyFile string
	// Optional lets unauthenticated requests through while still
	// rejecting bad credentials
	Optional bool
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// Metrics
	MetricsEnabled bool

	// Record count refresh schedule (cron spec, e.g. "@every 1m")
	MonitorSchedule string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		Storage:       loadStorageConfig(),
		Auth:          loadAuthConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadServerConfig loads server configuration from environment
func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:             getEnv("DEPOT_HOST", "0.0.0.0"),
		Port:             getEnv("DEPOT_PORT", "8080"),
		ReadTimeout:      getEnvDuration("DEPOT_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:     getEnvDuration("DEPOT_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:      getEnvDuration("DEPOT_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:  getEnvDuration("DEPOT_SHUTDOWN_TIMEOUT", 30*time.Second),
		QueryTimeout:     getEnvDuration("DEPOT_QUERY_TIMEOUT", 10*time.Second),
		RateLimitEnabled: getEnvBool("DEPOT_RATE_LIMIT_ENABLED", false),
		RateLimitPerMin:  getEnvInt("DEPOT_RATE_LIMIT_PER_MIN", 300),
		HealthPort:       getEnv("DEPOT_HEALTH_PORT", "9090"),
	}
}

// loadStorageConfig loads storage configuration from environment
func loadStorageConfig() storage.Config {
	cfg := storage.DefaultConfig()

	if storageType := getEnv("DEPOT_STORAGE_TYPE", ""); storageType != "" {
		cfg.Type = storageType
	}

	// SQLite config
	if sqlitePath := getEnv("DEPOT_SQLITE_PATH", ""); sqlitePath != "" {
		cfg.SQLitePath = sqlitePath
	}

	// PostgreSQL config
	if pgURL := getEnv("DEPOT_POSTGRES_URL", ""); pgURL != "" {
		cfg.PostgresURL = pgURL
	}
	if maxConns := getEnvInt("DEPOT_POSTGRES_MAX_CONNS", 0); maxConns > 0 {
		cfg.PostgresMaxConns = maxConns
	}
	if minConns := getEnvInt("DEPOT_POSTGRES_MIN_CONNS", 0); minConns > 0 {
		cfg.PostgresMinConns = minConns
	}
	if timeout := getEnvDuration("DEPOT_POSTGRES_TIMEOUT", 0); timeout > 0 {
		cfg.PostgresTimeout = timeout
	}

	// Redis config
	if redisURL := getEnv("DEPOT_REDIS_URL", ""); redisURL != "" {
		cfg.RedisURL = redisURL
	}
	if redisPassword := getEnv("DEPOT_REDIS_PASSWORD", ""); redisPassword != "" {
		cfg.RedisPassword = redisPassword
	}
	if redisDB := getEnvInt("DEPOT_REDIS_DB", -1); redisDB >= 0 {
		cfg.RedisDB = redisDB
	}

	// Cache config
	if cacheEnabled := getEnv("DEPOT_CACHE_ENABLED", ""); cacheEnabled != "" {
		cfg.CacheEnabled = strings.ToLower(cacheEnabled) == "true"
	}
	if cacheTTL := getEnvDuration("DEPOT_CACHE_TTL", 0); cacheTTL > 0 {
		cfg.CacheTTL = cacheTTL
	}
	if l1Size := getEnvInt("DEPOT_L1_CACHE_SIZE", 0); l1Size > 0 {
		cfg.L1CacheSize = l1Size
	}

	return cfg
}

// loadAuthConfig loads authentication configuration from environment
func loadAuthConfig() AuthConfig {
	return AuthConfig{
		Enabled:  getEnvBool("DEPOT_AUTH_ENABLED", false),
		KeyFile:  getEnv("DEPOT_AUTH_KEY_FILE", ""),
		Optional: getEnvBool("DEPOT_AUTH_OPTIONAL", false),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:        parseLogLevel(getEnv("DEPOT_LOG_LEVEL", "info")),
		MetricsEnabled:  getEnvBool("DEPOT_METRICS_ENABLED", true),
		MonitorSchedule: getEnv("DEPOT_MONITOR_SCHEDULE", "@every 1m"),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.Server.HealthPort == "" {
		return fmt.Errorf("health port is required")
	}
	if c.Server.Port == c.Server.HealthPort {
		return fmt.Errorf("server port and health port must be different")
	}
	if c.Server.QueryTimeout <= 0 {
		return fmt.Errorf("query timeout must be positive")
	}
	if c.Server.RateLimitEnabled && c.Server.RateLimitPerMin <= 0 {
		return fmt.Errorf("rate limit per minute must be positive")
	}

	// Validate storage config based on type
	switch c.Storage.Type {
	case "memory":
		// nothing to check
	case "sqlite":
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("sqlite path is required for sqlite storage")
		}
	case "postgres":
		if c.Storage.PostgresURL == "" {
			return fmt.Errorf("postgres URL is required for postgres storage")
		}
	default:
		return fmt.Errorf("invalid storage type: %s (must be memory, sqlite, or postgres)", c.Storage.Type)
	}

	// Validate cache config
	if c.Storage.CacheEnabled && c.Storage.CacheTTL <= 0 {
		return fmt.Errorf("cache TTL must be positive when caching is enabled")
	}

	// Validate auth config
	if c.Auth.Enabled && c.Auth.KeyFile == "" {
		return fmt.Errorf("key file is required when authentication is enabled")
	}

	return nil
}

// parseLogLevel parses a log level string
func parseLogLevel(level string) observability.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return observability.DebugLevel
	case "info":
		return observability.InfoLevel
	case "warn", "warning":
		return observability.WarnLevel
	case "error":
		return observability.ErrorLevel
	default:
		return observability.InfoLevel
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt returns an integer environment variable or a default
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
