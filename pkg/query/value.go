package query

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openarchive/depot/pkg/resource"
)

// datetime layouts accepted for DateTime filter values, tried in order
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerceValue converts a raw filter value to the field's declared value
// type. nil passes through untouched: comparisons against nil are resolved
// by the operator semantics, matching the original API where null is a
// legal comparison operand.
func coerceValue(raw any, vt resource.ValueType) (any, bool) {
	if raw == nil {
		return nil, true
	}
	switch vt {
	case resource.String:
		s, ok := raw.(string)
		return s, ok
	case resource.UUID:
		s, ok := raw.(string)
		if !ok {
			return nil, false
		}
		if _, err := uuid.Parse(s); err != nil {
			return nil, false
		}
		return s, true
	case resource.Int:
		switch v := raw.(type) {
		case int:
			return int64(v), true
		case int64:
			return v, true
		case float64:
			// JSON decoding yields float64 for all numbers
			if v != float64(int64(v)) {
				return nil, false
			}
			return int64(v), true
		default:
			return nil, false
		}
	case resource.Float:
		switch v := raw.(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		default:
			return nil, false
		}
	case resource.Bool:
		b, ok := raw.(bool)
		return b, ok
	case resource.DateTime:
		switch v := raw.(type) {
		case time.Time:
			return v, true
		case string:
			for _, layout := range datetimeLayouts {
				if t, err := time.Parse(layout, v); err == nil {
					return t, true
				}
			}
			return nil, false
		default:
			return nil, false
		}
	default:
		return nil, false
	}
}

// valuesEqual compares a record value against a coerced filter value.
// Numeric kinds compare across int64/float64; nil equals only nil.
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	return a == b
}

// compareValues returns -1, 0 or 1 for ordered kinds. The second return is
// false when the two values have no defined ordering.
func compareValues(a, b any) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case at.Before(bt):
			return -1, true
		case at.After(bt):
			return 1, true
		default:
			return 0, true
		}
	}
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if as, ok := a.(string); ok {
		bs, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(as, bs), true
	}
	if ab, ok := a.(bool); ok {
		bb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case ab == bb:
			return 0, true
		case !ab:
			return -1, true
		default:
			return 1, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
