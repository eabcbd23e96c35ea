// Package query implements the declarative, resource-agnostic search engine:
// filter expression parsing and validation, deterministic ordering,
// pagination, and the orchestration that ties them to a record source.
//
// # Overview
//
// Filter expressions arrive as loosely-typed nested arrays (decoded JSON) and
// are parsed into a typed tree at the boundary. Every leaf is validated
// against the resource's schema descriptors before any record is touched:
// unknown fields, unpermitted operators and uncoercible values abort the
// query with a typed error. A validated tree compiles into a side-effect-free
// predicate over records.
//
// # Filter Syntax
//
// Simple leaves name the resource, a field, an operator and a value:
//
//	["packages", "description", "contains", "workflow"]
//
// Reference-traversal leaves compare a field of a linked record:
//
//	["packages", "origin_pipeline", "description", "exact", "Main pipeline"]
//
// Boolean combinators nest arbitrarily (bounded by MaxFilterDepth):
//
//	["and", [
//	    ["packages", "size", "gt", 512],
//	    ["not", ["packages", "status", "exact", "DELETED"]]]]
//
// # Usage Example
//
//	engine := query.NewEngine(registry, source)
//	result, err := engine.Execute(ctx, "locations", query.Query{
//		Filter:  filter,
//		OrderBy: []any{[]any{"purpose"}},
//		Paginator: &query.Pagination{Page: 1, ItemsPerPage: 20},
//	})
//
// # Related Packages
//
//   - pkg/resource: schema descriptors consulted during validation
//   - pkg/storage: record source implementations
package query
