// Package storage provides the record sources the query engine reads from.
//
// # Overview
//
// A record source supplies all records of a resource type, or a single
// record by primary key. Three backends are provided:
//
// Memory: in-process store for development servers and tests
// SQLite: single-file document store (one table per resource)
// PostgreSQL: the production backend, same document layout
//
// The SQL backends store each record as one JSON document row and decode it
// through the schema registry, so field values reach the engine in their
// declared kinds (int64, time.Time, nested records for references).
//
// # Caching
//
// CachedSource decorates any source with an in-process LRU (L1) and an
// optional Redis layer (L2), both TTL-bounded. Cache hits and misses are
// exported as Prometheus counters.
//
// # Usage Example
//
//	source, err := storage.NewSource(cfg, registry)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer source.Close()
//
//	records, err := source.List(ctx, "locations")
//
// # Related Packages
//
//   - pkg/query: consumes records through the RecordSource interface
//   - pkg/resource: descriptors used to decode stored documents
package storage
