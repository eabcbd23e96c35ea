package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
)

// sqlSource implements Source over a database/sql handle. Each resource
// type has its own table with (uuid, data) columns; records are stored as
// JSON documents and decoded through the registry.
type sqlSource struct {
	db          *sql.DB
	registry    *resource.Registry
	placeholder func(n int) string
}

func (s *sqlSource) tableFor(resourceName string) (*resource.Type, string, error) {
	t, err := s.registry.Describe(resourceName)
	if err != nil {
		return nil, "", err
	}
	// Resource names are registry-controlled identifiers, never caller
	// input, so interpolating the table name is safe.
	return t, "depot_" + t.Name, nil
}

func (s *sqlSource) List(ctx context.Context, resourceName string) ([]query.Record, error) {
	t, table, err := s.tableFor(resourceName)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT data FROM %s ORDER BY uuid", table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", resourceName, err)
	}
	defer rows.Close()

	var records []query.Record
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("list %s: %w", resourceName, err)
		}
		rec, err := s.decode(t, doc)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", resourceName, err)
	}
	return records, nil
}

func (s *sqlSource) Get(ctx context.Context, resourceName, key string) (query.Record, bool, error) {
	t, table, err := s.tableFor(resourceName)
	if err != nil {
		return nil, false, err
	}
	q := fmt.Sprintf("SELECT data FROM %s WHERE uuid = %s", table, s.placeholder(1))
	var doc []byte
	err = s.db.QueryRowContext(ctx, q, key).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s %s: %w", resourceName, key, err)
	}
	rec, err := s.decode(t, doc)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

func (s *sqlSource) Count(ctx context.Context, resourceName string) (int, error) {
	_, table, err := s.tableFor(resourceName)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", resourceName, err)
	}
	return n, nil
}

// Put inserts or replaces one record document. Used by loaders and tests;
// the query engine itself never writes.
func (s *sqlSource) Put(ctx context.Context, resourceName string, rec query.Record) error {
	t, table, err := s.tableFor(resourceName)
	if err != nil {
		return err
	}
	key, _ := rec[t.PrimaryKey].(string)
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("put %s: %w", resourceName, err)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (uuid, data) VALUES (%s, %s) ON CONFLICT (uuid) DO UPDATE SET data = %s",
		table, s.placeholder(1), s.placeholder(2), s.placeholder(3))
	_, err = s.db.ExecContext(ctx, q, key, doc, doc)
	if err != nil {
		return fmt.Errorf("put %s %s: %w", resourceName, key, err)
	}
	return nil
}

func (s *sqlSource) decode(t *resource.Type, doc []byte) (query.Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(doc, &raw); err != nil {
		return nil, fmt.Errorf("decode %s document: %w", t.Name, err)
	}
	return NormalizeRecord(s.registry, t, raw), nil
}

func (s *sqlSource) HealthCheck(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlSource) Close() error {
	return s.db.Close()
}

// initSchema creates the document table for every registered resource
func (s *sqlSource) initSchema(ctx context.Context) error {
	for _, name := range s.registry.Names() {
		_, table, err := s.tableFor(name)
		if err != nil {
			return err
		}
		ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (uuid TEXT PRIMARY KEY, data TEXT NOT NULL)", table)
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", table, err)
		}
	}
	return nil
}
