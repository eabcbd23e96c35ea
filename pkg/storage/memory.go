package storage

import (
	"context"
	"sync"

	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
)

// MemorySource is an in-process record source. Reads take a shared lock,
// so it is safe for concurrent queries; writes happen at seed time.
type MemorySource struct {
	registry *resource.Registry

	mu      sync.RWMutex
	records map[string][]query.Record // resource -> records in insertion order
	byKey   map[string]map[string]int // resource -> pk -> index
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource(registry *resource.Registry) *MemorySource {
	return &MemorySource{
		registry: registry,
		records:  make(map[string][]query.Record),
		byKey:    make(map[string]map[string]int),
	}
}

// Put inserts or replaces one record, keyed by the resource's primary key
func (s *MemorySource) Put(resourceName string, rec query.Record) error {
	t, err := s.registry.Describe(resourceName)
	if err != nil {
		return err
	}
	key, _ := rec[t.PrimaryKey].(string)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byKey[resourceName] == nil {
		s.byKey[resourceName] = make(map[string]int)
	}
	if i, exists := s.byKey[resourceName][key]; exists {
		s.records[resourceName][i] = rec
		return nil
	}
	s.byKey[resourceName][key] = len(s.records[resourceName])
	s.records[resourceName] = append(s.records[resourceName], rec)
	return nil
}

// List returns all records of the resource in insertion order
func (s *MemorySource) List(ctx context.Context, resourceName string) ([]query.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := s.registry.Describe(resourceName); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]query.Record, len(s.records[resourceName]))
	copy(out, s.records[resourceName])
	return out, nil
}

// Get returns the record with the given primary key
func (s *MemorySource) Get(ctx context.Context, resourceName, key string) (query.Record, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	if _, err := s.registry.Describe(resourceName); err != nil {
		return nil, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byKey[resourceName][key]
	if !ok {
		return nil, false, nil
	}
	return s.records[resourceName][i], true, nil
}

// Count returns the number of records of the resource
func (s *MemorySource) Count(ctx context.Context, resourceName string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records[resourceName]), nil
}

// HealthCheck always succeeds for the in-process store
func (s *MemorySource) HealthCheck(ctx context.Context) error {
	return ctx.Err()
}

// Close is a no-op
func (s *MemorySource) Close() error { return nil }
