package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/openarchive/depot/pkg/resource"
)

// SQLiteSource is a single-file record source for small deployments
type SQLiteSource struct {
	sqlSource
}

// NewSQLiteSource opens (creating if necessary) a SQLite-backed source
func NewSQLiteSource(path string, registry *resource.Registry) (*SQLiteSource, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite directory: %w", err)
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY churn under concurrent reads-plus-seed.
	db.SetMaxOpenConns(1)

	s := &SQLiteSource{
		sqlSource: sqlSource{
			db:          db,
			registry:    registry,
			placeholder: func(int) string { return "?" },
		},
	}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}
