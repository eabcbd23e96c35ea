package storage

import (
	"time"

	"github.com/openarchive/depot/pkg/query"
	"github.com/openarchive/depot/pkg/resource"
)

var storedTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// NormalizeRecord converts a decoded JSON document into a query.Record
// with field values in their schema-declared kinds: integers as int64,
// datetimes as time.Time, references as nested records. Values that do not
// convert are kept as stored; the engine treats them as non-matching
// rather than failing the whole result set.
func NormalizeRecord(reg *resource.Registry, t *resource.Type, raw map[string]any) query.Record {
	rec := make(query.Record, len(raw))
	for k, v := range raw {
		rec[k] = v
	}
	for _, fd := range t.Fields() {
		v, ok := rec[fd.Name]
		if !ok || v == nil {
			continue
		}
		switch fd.Kind {
		case resource.Scalar:
			rec[fd.Name] = normalizeScalar(v, fd.ValueType)
		case resource.Reference:
			if child, ok := v.(map[string]any); ok {
				if target, err := reg.Describe(fd.Target); err == nil {
					rec[fd.Name] = NormalizeRecord(reg, target, child)
				}
			}
		case resource.Collection:
			items, ok := v.([]any)
			if !ok {
				continue
			}
			target, err := reg.Describe(fd.Target)
			if err != nil {
				continue
			}
			children := make([]query.Record, 0, len(items))
			for _, item := range items {
				child, ok := item.(map[string]any)
				if !ok {
					continue
				}
				children = append(children, NormalizeRecord(reg, target, child))
			}
			rec[fd.Name] = children
		}
	}
	return rec
}

func normalizeScalar(v any, vt resource.ValueType) any {
	switch vt {
	case resource.Int:
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return int64(f)
		}
		if n, ok := v.(int); ok {
			return int64(n)
		}
	case resource.DateTime:
		if s, ok := v.(string); ok {
			for _, layout := range storedTimeLayouts {
				if t, err := time.Parse(layout, s); err == nil {
					return t
				}
			}
		}
	}
	return v
}
