package query

import (
	"context"
	"time"
)

// Record is an opaque, field-addressable view of one stored entity. Scalar
// values are the coerced Go kinds (string, int64, float64, bool, time.Time
// or nil); reference fields hold a nested Record or nil; collection fields
// hold a []Record.
type Record map[string]any

// RecordSource supplies raw records for a resource type. It stands in for
// the persistence layer: implementations must be safe for concurrent reads
// and must honor the caller's context deadline.
type RecordSource interface {
	// List returns all records of the resource type
	List(ctx context.Context, resource string) ([]Record, error)

	// Get returns the record with the given primary key, reporting
	// whether it exists
	Get(ctx context.Context, resource, key string) (Record, bool, error)
}

// asRecord converts reference field values into a Record, accepting the
// raw map shape produced by JSON decoding
func asRecord(v any) (Record, bool) {
	switch rv := v.(type) {
	case Record:
		return rv, true
	case map[string]any:
		return Record(rv), true
	default:
		return nil, false
	}
}

// asRecordSlice converts collection field values into records
func asRecordSlice(v any) ([]Record, bool) {
	switch rv := v.(type) {
	case []Record:
		return rv, true
	case []any:
		out := make([]Record, 0, len(rv))
		for _, item := range rv {
			rec, ok := asRecord(item)
			if !ok {
				return nil, false
			}
			out = append(out, rec)
		}
		return out, true
	default:
		return nil, false
	}
}

// isNullValue reports whether a field value counts as absent. Empty
// collections are treated as absent relations.
func isNullValue(v any) bool {
	switch rv := v.(type) {
	case nil:
		return true
	case []Record:
		return len(rv) == 0
	case []any:
		return len(rv) == 0
	case Record:
		return false
	case map[string]any:
		return false
	case time.Time:
		return rv.IsZero()
	default:
		return false
	}
}
