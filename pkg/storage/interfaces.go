package storage

import (
	"context"
	"time"

	"github.com/openarchive/depot/pkg/query"
)

// Source is a record source with the lifecycle and introspection hooks the
// server needs on top of what the query engine consumes
type Source interface {
	query.RecordSource

	// Count returns the number of records of a resource type without
	// materializing them
	Count(ctx context.Context, resource string) (int, error)

	// HealthCheck verifies the backend is reachable
	HealthCheck(ctx context.Context) error

	// Close releases backend connections
	Close() error
}

// Config selects and tunes the storage backend
type Config struct {
	Type string // "memory", "sqlite", "postgres"

	// SQLite config
	SQLitePath string

	// PostgreSQL config
	PostgresURL      string
	PostgresMaxConns int
	PostgresMinConns int
	PostgresTimeout  time.Duration

	// Redis config (L2 cache)
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Cache config
	CacheEnabled bool
	CacheTTL     time.Duration
	L1CacheSize  int // entries
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Type:             "memory",
		SQLitePath:       "/tmp/depot/depot.db",
		PostgresMaxConns: 20,
		PostgresMinConns: 2,
		PostgresTimeout:  10 * time.Second,
		CacheEnabled:     false,
		CacheTTL:         5 * time.Minute,
		L1CacheSize:      1024,
	}
}
