// Package config provides application configuration management from environment variables.
//
// # Overview
//
// This package loads and validates configuration from environment variables with
// sensible defaults for all settings.
//
// # Configuration Structure
//
// Server settings:
//
//	DEPOT_HOST="0.0.0.0"
//	DEPOT_PORT="8080"
//	DEPOT_HEALTH_PORT="9090"
//	DEPOT_READ_TIMEOUT="15s"
//	DEPOT_WRITE_TIMEOUT="15s"
//	DEPOT_QUERY_TIMEOUT="10s"
//	DEPOT_RATE_LIMIT_ENABLED="false"
//	DEPOT_RATE_LIMIT_PER_MIN="300"
//
// Storage settings:
//
//	DEPOT_STORAGE_TYPE="sqlite"  # memory, sqlite, postgres
//	DEPOT_SQLITE_PATH="/var/depot/depot.db"
//	DEPOT_POSTGRES_URL="postgres://localhost/depot"
//	DEPOT_POSTGRES_MAX_CONNS="20"
//
// Cache settings:
//
//	DEPOT_CACHE_ENABLED="true"
//	DEPOT_CACHE_TTL="5m"
//	DEPOT_L1_CACHE_SIZE="1024"
//	DEPOT_REDIS_URL="redis://localhost:6379"
//
// Authentication settings:
//
//	DEPOT_AUTH_ENABLED="true"
//	DEPOT_AUTH_KEY_FILE="/etc/depot/api_keys"
//	DEPOT_AUTH_OPTIONAL="false"
//
// Observability settings:
//
//	DEPOT_LOG_LEVEL="info"  # debug, info, warn, error
//	DEPOT_METRICS_ENABLED="true"
//	DEPOT_MONITOR_SCHEDULE="@every 1m"
//
// # Usage Example
//
// Load configuration:
//
//	cfg, err := config.LoadConfig()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	fmt.Printf("Server: %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//	fmt.Printf("Storage: %s\n", cfg.Storage.Type)
//
// # Related Packages
//
//   - pkg/storage: Uses storage configuration
//   - pkg/observability: Uses observability configuration
package config
