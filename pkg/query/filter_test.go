package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openarchive/depot/pkg/resource"
)

func builtinRegistry(t *testing.T) *resource.Registry {
	t.Helper()
	reg := resource.NewRegistry()
	require.NoError(t, resource.RegisterBuiltin(reg))
	return reg
}

func describe(t *testing.T, reg *resource.Registry, name string) *resource.Type {
	t.Helper()
	typ, err := reg.Describe(name)
	require.NoError(t, err)
	return typ
}

func mustCompile(t *testing.T, reg *resource.Registry, res string, raw any) *Filter {
	t.Helper()
	f, err := CompileFilter(reg, describe(t, reg, res), raw)
	require.NoError(t, err)
	return f
}

func TestCompileNilFilterMatchesAll(t *testing.T) {
	reg := builtinRegistry(t)

	f := mustCompile(t, reg, "locations", nil)

	assert.True(t, f.Match(Record{"purpose": "TS"}))
	assert.True(t, f.Match(Record{}))
}

func TestNilFilterPointerMatchesAll(t *testing.T) {
	var f *Filter
	assert.True(t, f.Match(Record{"purpose": "TS"}))
}

func TestScalarLeafOperators(t *testing.T) {
	reg := builtinRegistry(t)

	rec := Record{
		"uuid":          "00000000-0000-0000-0000-000000000001",
		"purpose":       "AS",
		"relative_path": "var/archive/aips",
		"quota":         int64(1000),
		"enabled":       true,
	}

	tests := []struct {
		name   string
		filter []any
		want   bool
	}{
		{"exact match", []any{"locations", "purpose", "exact", "AS"}, true},
		{"exact miss", []any{"locations", "purpose", "exact", "TS"}, false},
		{"equals alias", []any{"locations", "purpose", "=", "AS"}, true},
		{"ne", []any{"locations", "purpose", "ne", "TS"}, true},
		{"ne alias", []any{"locations", "purpose", "!=", "AS"}, false},
		{"iexact", []any{"locations", "purpose", "iexact", "as"}, true},
		{"contains", []any{"locations", "relative_path", "contains", "archive"}, true},
		{"like alias", []any{"locations", "relative_path", "like", "archive"}, true},
		{"contains miss", []any{"locations", "relative_path", "contains", "transfer"}, false},
		{"icontains", []any{"locations", "relative_path", "icontains", "ARCHIVE"}, true},
		{"startswith", []any{"locations", "relative_path", "startswith", "var/"}, true},
		{"startswith miss", []any{"locations", "relative_path", "startswith", "archive"}, false},
		{"regex", []any{"locations", "purpose", "regex", "^(TS|AS)$"}, true},
		{"regexp alias", []any{"locations", "purpose", "regexp", "^B"}, false},
		{"in", []any{"locations", "purpose", "in", []any{"TS", "AS"}}, true},
		{"in miss", []any{"locations", "purpose", "in", []any{"TS", "BL"}}, false},
		{"gt", []any{"locations", "quota", "gt", float64(999)}, true},
		{"gt alias", []any{"locations", "quota", ">", float64(1000)}, false},
		{"gte", []any{"locations", "quota", ">=", float64(1000)}, true},
		{"lt", []any{"locations", "quota", "<", float64(1001)}, true},
		{"lte", []any{"locations", "quota", "<=", float64(999)}, false},
		{"bool exact", []any{"locations", "enabled", "=", true}, true},
		{"uuid exact", []any{"locations", "uuid", "=", "00000000-0000-0000-0000-000000000001"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustCompile(t, reg, "locations", tt.filter)
			assert.Equal(t, tt.want, f.Match(rec))
		})
	}
}

func TestStringOperatorsAreStringOnly(t *testing.T) {
	reg := builtinRegistry(t)

	// contains over a non-string record value never matches
	f := mustCompile(t, reg, "locations", []any{"locations", "purpose", "contains", "1"})
	assert.False(t, f.Match(Record{"purpose": int64(100)}))
}

func TestIsNull(t *testing.T) {
	reg := builtinRegistry(t)

	tests := []struct {
		name   string
		filter []any
		rec    Record
		want   bool
	}{
		{"missing field is null", []any{"locations", "description", "isnull", true}, Record{}, true},
		{"nil is null", []any{"locations", "description", "isnull", true}, Record{"description": nil}, true},
		{"present is not null", []any{"locations", "description", "isnull", true}, Record{"description": "x"}, false},
		{"isnull false", []any{"locations", "description", "isnull", false}, Record{"description": "x"}, true},
		{"shorthand without value", []any{"locations", "description", "isnull"}, Record{}, true},
		{"empty string is not null", []any{"locations", "description", "isnull", true}, Record{"description": ""}, false},
		{"empty collection is null", []any{"locations", "replicators", "isnull", true}, Record{"replicators": []any{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustCompile(t, reg, "locations", tt.filter)
			assert.Equal(t, tt.want, f.Match(tt.rec))
		})
	}
}

func TestRelationPresenceSugar(t *testing.T) {
	reg := builtinRegistry(t)

	withSpace := Record{"space": Record{"uuid": "s1"}}
	withoutSpace := Record{}

	t.Run("exact null means absent", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"locations", "space", "=", nil})
		assert.True(t, f.Match(withoutSpace))
		assert.False(t, f.Match(withSpace))
	})

	t.Run("ne null means present", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"locations", "space", "!=", nil})
		assert.True(t, f.Match(withSpace))
		assert.False(t, f.Match(withoutSpace))
	})

	t.Run("non-null operand rejected", func(t *testing.T) {
		_, err := CompileFilter(reg, describe(t, reg, "locations"),
			[]any{"locations", "space", "=", "some-uuid"})
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, "null", tm.Want)
	})

	t.Run("comparison operator rejected", func(t *testing.T) {
		_, err := CompileFilter(reg, describe(t, reg, "locations"),
			[]any{"locations", "space", "contains", "x"})
		var uo *UnsupportedOperatorError
		assert.ErrorAs(t, err, &uo)
	})
}

func TestTraversalLeaves(t *testing.T) {
	reg := builtinRegistry(t)

	pkg := Record{
		"uuid": "p1",
		"origin_pipeline": Record{
			"uuid":        "pl1",
			"description": "main pipeline",
			"enabled":     true,
		},
		"replicas": []any{
			map[string]any{"uuid": "r1", "status": "UPLOADED"},
			map[string]any{"uuid": "r2", "status": "DELETED"},
		},
	}

	t.Run("reference traversal", func(t *testing.T) {
		f := mustCompile(t, reg, "packages",
			[]any{"packages", "origin_pipeline", "description", "contains", "main"})
		assert.True(t, f.Match(pkg))

		f = mustCompile(t, reg, "packages",
			[]any{"packages", "origin_pipeline", "enabled", "=", false})
		assert.False(t, f.Match(pkg))
	})

	t.Run("reference traversal with absent relation", func(t *testing.T) {
		f := mustCompile(t, reg, "packages",
			[]any{"packages", "origin_pipeline", "description", "contains", "main"})
		assert.False(t, f.Match(Record{"uuid": "p2"}))
	})

	t.Run("collection traversal matches any element", func(t *testing.T) {
		f := mustCompile(t, reg, "packages",
			[]any{"packages", "replicas", "status", "=", "DELETED"})
		assert.True(t, f.Match(pkg))

		f = mustCompile(t, reg, "packages",
			[]any{"packages", "replicas", "status", "=", "STAGING"})
		assert.False(t, f.Match(pkg))
	})

	t.Run("traversal subfield validated against target whitelist", func(t *testing.T) {
		_, err := CompileFilter(reg, describe(t, reg, "packages"),
			[]any{"packages", "origin_pipeline", "nonexistent", "=", "x"})
		var uf *UnknownFieldError
		require.ErrorAs(t, err, &uf)
		assert.Equal(t, "pipelines", uf.Resource)
	})

	t.Run("traversal through scalar rejected", func(t *testing.T) {
		_, err := CompileFilter(reg, describe(t, reg, "packages"),
			[]any{"packages", "status", "status", "=", "x"})
		var me *MalformedExpressionError
		assert.ErrorAs(t, err, &me)
	})

	t.Run("traversal must end on scalar", func(t *testing.T) {
		_, err := CompileFilter(reg, describe(t, reg, "packages"),
			[]any{"packages", "origin_pipeline", "location_set", "=", "x"})
		var me *MalformedExpressionError
		assert.ErrorAs(t, err, &me)
	})
}

func TestCombinators(t *testing.T) {
	reg := builtinRegistry(t)

	ts := Record{"purpose": "TS", "enabled": true}
	as := Record{"purpose": "AS", "enabled": false}

	t.Run("and", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"and", []any{
			[]any{"locations", "purpose", "=", "TS"},
			[]any{"locations", "enabled", "=", true},
		}})
		assert.True(t, f.Match(ts))
		assert.False(t, f.Match(as))
	})

	t.Run("or", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"or", []any{
			[]any{"locations", "purpose", "=", "AS"},
			[]any{"locations", "enabled", "=", true},
		}})
		assert.True(t, f.Match(ts))
		assert.True(t, f.Match(as))
		assert.False(t, f.Match(Record{"purpose": "BL", "enabled": false}))
	})

	t.Run("not", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"not",
			[]any{"locations", "purpose", "=", "TS"},
		})
		assert.False(t, f.Match(ts))
		assert.True(t, f.Match(as))
	})

	t.Run("nested", func(t *testing.T) {
		f := mustCompile(t, reg, "locations", []any{"and", []any{
			[]any{"not", []any{"locations", "purpose", "=", "BL"}},
			[]any{"or", []any{
				[]any{"locations", "enabled", "=", true},
				[]any{"locations", "purpose", "=", "AS"},
			}},
		}})
		assert.True(t, f.Match(ts))
		assert.True(t, f.Match(as))
	})
}

func TestCompileErrors(t *testing.T) {
	reg := builtinRegistry(t)
	locations := describe(t, reg, "locations")

	tests := []struct {
		name string
		raw  any
		want any
	}{
		{"not a list", "purpose=TS", &MalformedExpressionError{}},
		{"empty list", []any{}, &MalformedExpressionError{}},
		{"non-string head", []any{42.0, "purpose"}, &MalformedExpressionError{}},
		{"and without children", []any{"and"}, &MalformedExpressionError{}},
		{"and with empty children", []any{"and", []any{}}, &MalformedExpressionError{}},
		{"not with two children", []any{"not", []any{}, []any{}}, &MalformedExpressionError{}},
		{"leaf too short", []any{"locations", "purpose"}, &MalformedExpressionError{}},
		{"leaf too long", []any{"locations", "purpose", "x", "y", "z", "w"}, &MalformedExpressionError{}},
		{"wrong resource", []any{"packages", "status", "=", "x"}, &MalformedExpressionError{}},
		{"unknown field", []any{"locations", "secret", "=", "x"}, &UnknownFieldError{}},
		{"unknown operator", []any{"locations", "purpose", "soundex", "x"}, &UnsupportedOperatorError{}},
		{"missing value", []any{"locations", "purpose", "="}, &MalformedExpressionError{}},
		{"type mismatch int", []any{"locations", "quota", "=", "lots"}, &TypeMismatchError{}},
		{"fractional int", []any{"locations", "quota", "=", 10.5}, &TypeMismatchError{}},
		{"type mismatch bool", []any{"locations", "enabled", "=", "yes"}, &TypeMismatchError{}},
		{"bad uuid", []any{"locations", "uuid", "=", "not-a-uuid"}, &TypeMismatchError{}},
		{"in without list", []any{"locations", "purpose", "in", "TS"}, &TypeMismatchError{}},
		{"in with bad member", []any{"locations", "quota", "in", []any{float64(1), "x"}}, &TypeMismatchError{}},
		{"invalid regex", []any{"locations", "purpose", "regex", "("}, &TypeMismatchError{}},
		{"non-string regex", []any{"locations", "purpose", "regex", 7.0}, &TypeMismatchError{}},
		{"isnull non-bool operand", []any{"locations", "purpose", "isnull", "yes"}, &TypeMismatchError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileFilter(reg, locations, tt.raw)
			require.Error(t, err)
			switch tt.want.(type) {
			case *MalformedExpressionError:
				var e *MalformedExpressionError
				assert.ErrorAs(t, err, &e)
			case *UnknownFieldError:
				var e *UnknownFieldError
				assert.ErrorAs(t, err, &e)
			case *UnsupportedOperatorError:
				var e *UnsupportedOperatorError
				assert.ErrorAs(t, err, &e)
			case *TypeMismatchError:
				var e *TypeMismatchError
				assert.ErrorAs(t, err, &e)
			}
		})
	}
}

func TestFilterDepthLimit(t *testing.T) {
	reg := builtinRegistry(t)

	// a chain of nots deeper than the limit
	var raw any = []any{"locations", "purpose", "=", "TS"}
	for i := 0; i < MaxFilterDepth+1; i++ {
		raw = []any{"not", raw}
	}

	_, err := CompileFilter(reg, describe(t, reg, "locations"), raw)

	var me *MalformedExpressionError
	require.ErrorAs(t, err, &me)
	assert.Contains(t, me.Reason, "depth")
}

func TestDatetimeCoercion(t *testing.T) {
	reg := builtinRegistry(t)

	rec := Record{"last_verified": mustTime(t, "2025-06-01T12:00:00Z")}

	f, err := CompileFilter(reg, describe(t, reg, "spaces"),
		[]any{"spaces", "last_verified", ">", "2025-01-01"})
	require.NoError(t, err)
	assert.True(t, f.Match(rec))

	f, err = CompileFilter(reg, describe(t, reg, "spaces"),
		[]any{"spaces", "last_verified", ">", "2025-07-01T00:00:00Z"})
	require.NoError(t, err)
	assert.False(t, f.Match(rec))

	_, err = CompileFilter(reg, describe(t, reg, "spaces"),
		[]any{"spaces", "last_verified", ">", "yesterday"})
	var tm *TypeMismatchError
	assert.ErrorAs(t, err, &tm)
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestResolveOperator(t *testing.T) {
	assert.Equal(t, "exact", ResolveOperator("="))
	assert.Equal(t, "ne", ResolveOperator("!="))
	assert.Equal(t, "contains", ResolveOperator("like"))
	assert.Equal(t, "icontains", ResolveOperator("ilike"))
	assert.Equal(t, "regex", ResolveOperator("regexp"))
	assert.Equal(t, "lt", ResolveOperator("<"))
	assert.Equal(t, "gte", ResolveOperator(">="))
	// canonical names pass through
	assert.Equal(t, "exact", ResolveOperator("exact"))
	assert.Equal(t, "soundex", ResolveOperator("soundex"))
}
