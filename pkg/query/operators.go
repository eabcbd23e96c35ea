package query

import (
	"regexp"
	"strings"

	"github.com/openarchive/depot/pkg/resource"
)

// evalOperator applies a canonical operator to one record value. A nil
// record value matches nothing except ne; presence tests are handled by
// isNullNode before reaching here.
func evalOperator(op string, rv, want any, re *regexp.Regexp) bool {
	switch op {
	case resource.OpExact:
		return valuesEqual(rv, want)

	case resource.OpNotEqual:
		return !valuesEqual(rv, want)

	case resource.OpIExact:
		rs, rok := rv.(string)
		ws, wok := want.(string)
		if rok && wok {
			return strings.EqualFold(rs, ws)
		}
		return valuesEqual(rv, want)

	case resource.OpContains:
		rs, rok := rv.(string)
		ws, wok := want.(string)
		return rok && wok && strings.Contains(rs, ws)

	case resource.OpIContains:
		rs, rok := rv.(string)
		ws, wok := want.(string)
		return rok && wok && strings.Contains(strings.ToLower(rs), strings.ToLower(ws))

	case resource.OpStartsWith:
		rs, rok := rv.(string)
		ws, wok := want.(string)
		return rok && wok && strings.HasPrefix(rs, ws)

	case resource.OpRegex:
		rs, ok := rv.(string)
		return ok && re != nil && re.MatchString(rs)

	case resource.OpIn:
		set, ok := want.([]any)
		if !ok {
			return false
		}
		for _, member := range set {
			if valuesEqual(rv, member) {
				return true
			}
		}
		return false

	case resource.OpGt:
		cmp, ok := compareValues(rv, want)
		return ok && cmp > 0

	case resource.OpGte:
		cmp, ok := compareValues(rv, want)
		return ok && cmp >= 0

	case resource.OpLt:
		cmp, ok := compareValues(rv, want)
		return ok && cmp < 0

	case resource.OpLte:
		cmp, ok := compareValues(rv, want)
		return ok && cmp <= 0

	default:
		return false
	}
}
