// Package api implements the REST interface over the record resources.
//
// # Overview
//
// Routes are generated from the schema registry: every registered
// resource type gets listing and lookup routes, and searchable types
// additionally get the search routes. All query semantics live in
// pkg/query; this package only translates HTTP to engine calls and
// engine errors to statuses.
//
// # Routes
//
// Per resource type:
//
//	GET    /{resource}/              List records (optional page, items_per_page)
//	GET    /{resource}/{uuid}/       Fetch one record by primary key
//	SEARCH /{resource}/              Search with a declarative filter
//	POST   /{resource}/search/       Same as SEARCH, for clients that cannot
//	                                 send bodies with custom methods
//	GET    /{resource}/new_search/   Describe searchable attributes
//
// Service-wide:
//
//	GET /openapi.json                OpenAPI 3 description of all routes
//
// # Error Mapping
//
// Validation failures (unknown field, bad operator, type mismatch,
// malformed expression, invalid pagination) answer 400. Unknown resources
// and records answer 404. Deadline failures answer 504 and backend
// failures 503; results are never silently truncated.
//
// # Related Packages
//
//   - pkg/query: filter compilation, ordering, pagination, execution
//   - pkg/resource: the schema registry routes are generated from
//   - pkg/httputil: response helpers and middleware
package api
