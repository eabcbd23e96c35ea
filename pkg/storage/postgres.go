package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/openarchive/depot/pkg/resource"
)

// PostgresSource is the production record source
type PostgresSource struct {
	sqlSource
}

// NewPostgresSource connects to PostgreSQL and ensures the document tables
// exist
func NewPostgresSource(cfg Config, registry *resource.Registry) (*PostgresSource, error) {
	db, err := sql.Open("postgres", cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.PostgresMaxConns)
	db.SetMaxIdleConns(cfg.PostgresMinConns)
	db.SetConnMaxLifetime(1 * time.Hour)
	db.SetConnMaxIdleTime(10 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.PostgresTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	s := &PostgresSource{
		sqlSource: sqlSource{
			db:          db,
			registry:    registry,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
	}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresSourceWithDB wraps an existing handle; the caller owns schema
// setup. Used by tests with sqlmock.
func NewPostgresSourceWithDB(db *sql.DB, registry *resource.Registry) *PostgresSource {
	return &PostgresSource{
		sqlSource: sqlSource{
			db:          db,
			registry:    registry,
			placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
		},
	}
}
