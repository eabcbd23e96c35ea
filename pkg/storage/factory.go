package storage

import (
	"fmt"

	"github.com/openarchive/depot/pkg/observability"
	"github.com/openarchive/depot/pkg/resource"
)

// NewSource builds the configured backend, optionally wrapped in the cache
// layer. metrics may be nil.
func NewSource(cfg Config, registry *resource.Registry, metrics *observability.Metrics) (Source, error) {
	var (
		inner Source
		err   error
	)
	switch cfg.Type {
	case "memory":
		ms := NewMemorySource(registry)
		if err := SeedDemo(ms); err != nil {
			return nil, fmt.Errorf("seed demo data: %w", err)
		}
		inner = ms
	case "sqlite":
		inner, err = NewSQLiteSource(cfg.SQLitePath, registry)
	case "postgres":
		inner, err = NewPostgresSource(cfg, registry)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if !cfg.CacheEnabled {
		return inner, nil
	}

	if cfg.RedisURL != "" {
		client, err := NewRedisClient(cfg)
		if err != nil {
			inner.Close()
			return nil, err
		}
		return NewCachedSource(inner, registry, cfg, client, metrics)
	}
	return NewCachedSource(inner, registry, cfg, nil, metrics)
}
