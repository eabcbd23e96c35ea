// Package resource defines the schema registry: the per-resource-type
// descriptors that declare which fields exist, what kind of values they hold,
// and which query operators are permitted on each field.
//
// # Overview
//
// Every resource type exposed through the API (locations, packages, spaces,
// pipelines) is registered once at startup. The registry is the single source
// of truth consulted by the query engine when validating filter and order
// expressions: a caller can never filter or sort on a field that is not
// explicitly whitelisted here, regardless of what the underlying record
// actually contains.
//
// # Usage Example
//
// Register the built-in resource types and describe one:
//
//	registry := resource.NewRegistry()
//	if err := resource.RegisterBuiltin(registry); err != nil {
//		log.Fatal(err)
//	}
//
//	loc, err := registry.Describe("locations")
//	field, ok := loc.Field("purpose")
//
// # Related Packages
//
//   - pkg/query: validates filter/order expressions against these descriptors
//   - pkg/storage: produces records whose fields the descriptors address
package resource
