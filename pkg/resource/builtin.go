package resource

// Canonical operator names. Aliases such as "=", "like" and "regexp" are
// resolved by the query package before the field whitelist is consulted.
const (
	OpExact      = "exact"
	OpIExact     = "iexact"
	OpNotEqual   = "ne"
	OpContains   = "contains"
	OpIContains  = "icontains"
	OpStartsWith = "startswith"
	OpRegex      = "regex"
	OpIn         = "in"
	OpGt         = "gt"
	OpGte        = "gte"
	OpLt         = "lt"
	OpLte        = "lte"
	OpIsNull     = "isnull"
)

// ScalarOperators returns the default operator whitelist for scalar fields
func ScalarOperators() map[string]bool {
	return map[string]bool{
		OpExact:      true,
		OpIExact:     true,
		OpNotEqual:   true,
		OpContains:   true,
		OpIContains:  true,
		OpStartsWith: true,
		OpRegex:      true,
		OpIn:         true,
		OpGt:         true,
		OpGte:        true,
		OpLt:         true,
		OpLte:        true,
		OpIsNull:     true,
	}
}

// RelationOperators returns the operator whitelist for reference and
// collection fields. Presence tests only; comparisons against the linked
// record's own fields use the traversal leaf form instead.
func RelationOperators() map[string]bool {
	return map[string]bool{
		OpExact:    true,
		OpNotEqual: true,
		OpIsNull:   true,
	}
}

func scalar(name string, vt ValueType) FieldDescriptor {
	return FieldDescriptor{
		Name:       name,
		Kind:       Scalar,
		ValueType:  vt,
		Operators:  ScalarOperators(),
		Comparable: true,
	}
}

func reference(name, target string) FieldDescriptor {
	return FieldDescriptor{
		Name:      name,
		Kind:      Reference,
		Operators: RelationOperators(),
		Target:    target,
	}
}

func collection(name, target string) FieldDescriptor {
	return FieldDescriptor{
		Name:      name,
		Kind:      Collection,
		Operators: RelationOperators(),
		Target:    target,
	}
}

// RegisterBuiltin registers the storage-registry resource types:
// locations, packages, spaces and pipelines. The field whitelists mirror
// the archival storage data model; anything not listed here is not
// reachable through filters or order_by.
func RegisterBuiltin(r *Registry) error {
	locations := NewType("locations", "uuid", []FieldDescriptor{
		scalar("uuid", UUID),
		reference("space", "spaces"),
		scalar("purpose", String),
		collection("pipeline", "pipelines"),
		scalar("relative_path", String),
		scalar("description", String),
		scalar("quota", Int),
		scalar("used", Int),
		scalar("enabled", Bool),
		collection("replicators", "locations"),
		collection("masters", "locations"),
	})

	packages := NewType("packages", "uuid", []FieldDescriptor{
		scalar("uuid", UUID),
		scalar("description", String),
		reference("origin_pipeline", "pipelines"),
		reference("current_location", "locations"),
		scalar("current_path", String),
		reference("pointer_file_location", "locations"),
		scalar("pointer_file_path", String),
		scalar("size", Int),
		scalar("encryption_key_fingerprint", String),
		reference("replicated_package", "packages"),
		scalar("package_type", String),
		scalar("stored_date", DateTime),
		collection("replicas", "packages"),
		collection("related_packages", "packages"),
		scalar("status", String),
		scalar("misc_attributes", String),
	})

	spaces := NewType("spaces", "uuid", []FieldDescriptor{
		scalar("uuid", UUID),
		scalar("access_protocol", String),
		scalar("size", Int),
		scalar("used", Int),
		scalar("path", String),
		scalar("staging_path", String),
		scalar("verified", Bool),
		scalar("last_verified", DateTime),
	})
	// Spaces are listable and fetchable but deliberately excluded from
	// the search surface.
	spaces.Searchable = false

	pipelines := NewType("pipelines", "uuid", []FieldDescriptor{
		scalar("uuid", UUID),
		scalar("description", String),
		scalar("remote_name", String),
		scalar("api_username", String),
		scalar("api_key", String),
		scalar("enabled", Bool),
		collection("location_set", "locations"),
	})

	for _, t := range []*Type{locations, packages, spaces, pipelines} {
		if err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
