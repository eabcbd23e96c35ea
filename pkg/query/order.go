package query

import (
	"fmt"
	"sort"

	"github.com/openarchive/depot/pkg/resource"
)

// orderDirections maps accepted direction spellings to descending=true/false
var orderDirections = map[string]bool{
	"":           false,
	"asc":        false,
	"ascending":  false,
	"-":          true,
	"desc":       true,
	"descending": true,
}

// OrderKey is one validated sort key
type OrderKey struct {
	Field      string
	Descending bool
}

// Ordering is a validated order_by plan. The resource primary key is
// appended as an implicit final key so that repeated identical queries are
// totally deterministic even when the explicit keys tie.
type Ordering struct {
	keys []OrderKey
}

// PlanOrder validates a raw order_by list (decoded JSON: a list of
// [field] or [field, direction] elements) against the resource type. A nil
// input plans the default ordering: primary key ascending.
func PlanOrder(t *resource.Type, raw any) (*Ordering, error) {
	keys := []OrderKey{}
	if raw != nil {
		list, ok := raw.([]any)
		if !ok {
			return nil, &MalformedExpressionError{Reason: "order_by must be a list"}
		}
		for _, rawKey := range list {
			key, err := planOrderKey(t, rawKey)
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
		}
	}

	// Implicit primary-key tiebreaker, unless already listed
	hasPK := false
	for _, k := range keys {
		if k.Field == t.PrimaryKey {
			hasPK = true
			break
		}
	}
	if !hasPK {
		keys = append(keys, OrderKey{Field: t.PrimaryKey})
	}
	return &Ordering{keys: keys}, nil
}

func planOrderKey(t *resource.Type, raw any) (OrderKey, error) {
	elem, ok := raw.([]any)
	if !ok {
		return OrderKey{}, &MalformedExpressionError{Reason: "order_by elements must be lists"}
	}
	if len(elem) < 1 || len(elem) > 2 {
		return OrderKey{}, &MalformedExpressionError{Reason: "order_by elements must be lists of 1 or 2 elements"}
	}
	fieldName, ok := elem[0].(string)
	if !ok {
		return OrderKey{}, &MalformedExpressionError{Reason: "order_by field must be a string"}
	}
	fd, ok := t.Field(fieldName)
	if !ok {
		return OrderKey{}, &UnknownFieldError{Resource: t.Name, Field: fieldName}
	}
	if !fd.Comparable {
		return OrderKey{}, &MalformedExpressionError{Reason: fmt.Sprintf("ordering on %s.%s is not permitted", t.Name, fieldName)}
	}
	key := OrderKey{Field: fieldName}
	if len(elem) == 2 {
		direction, ok := elem[1].(string)
		if !ok {
			return OrderKey{}, &MalformedExpressionError{Reason: "order_by direction must be a string"}
		}
		descending, ok := orderDirections[direction]
		if !ok {
			return OrderKey{}, &MalformedExpressionError{Reason: fmt.Sprintf("unrecognized order_by direction %q", direction)}
		}
		key.Descending = descending
	}
	return key, nil
}

// less compares two records under the plan. Keys apply left to right, each
// subsequent key breaking ties of the previous. Null values sort last
// regardless of direction.
func (o *Ordering) less(a, b Record) bool {
	for _, key := range o.keys {
		av, bv := a[key.Field], b[key.Field]
		aNull, bNull := isNullValue(av), isNullValue(bv)
		switch {
		case aNull && bNull:
			continue
		case aNull:
			return false
		case bNull:
			return true
		}
		cmp, ok := compareValues(av, bv)
		if !ok || cmp == 0 {
			continue
		}
		if key.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// Sort orders records in place. The underlying sort is stable, so records
// equal on every key keep their source order.
func (o *Ordering) Sort(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return o.less(records[i], records[j])
	})
}
