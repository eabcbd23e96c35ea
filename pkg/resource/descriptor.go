package resource

// FieldKind classifies how a field relates to its resource
type FieldKind int

const (
	// Scalar is a plain value stored on the record itself
	Scalar FieldKind = iota
	// Reference points at a single record of another (or the same) resource
	Reference
	// Collection points at a set of records of another resource
	Collection
)

func (k FieldKind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case Reference:
		return "reference"
	case Collection:
		return "collection"
	default:
		return "unknown"
	}
}

// ValueType declares the coercion target for filter values on a field
type ValueType int

const (
	String ValueType = iota
	Int
	Float
	Bool
	DateTime
	UUID
)

func (t ValueType) String() string {
	switch t {
	case String:
		return "string"
	case Int:
		return "integer"
	case Float:
		return "number"
	case Bool:
		return "boolean"
	case DateTime:
		return "datetime"
	case UUID:
		return "uuid"
	default:
		return "unknown"
	}
}

// FieldDescriptor declares a single queryable field of a resource type
type FieldDescriptor struct {
	// Name is the wire name of the field as it appears in records,
	// filter expressions and order_by lists
	Name string

	// Kind distinguishes scalar values from reference/collection links
	Kind FieldKind

	// ValueType is the coercion target for values compared against this
	// field. Ignored for Reference and Collection fields.
	ValueType ValueType

	// Operators is the whitelist of operator names permitted on this
	// field. Operator aliases are resolved before this set is consulted.
	Operators map[string]bool

	// Comparable marks fields that may appear in order_by lists and be
	// used with the ordered relations (gt/gte/lt/lte)
	Comparable bool

	// Target names the resource type a Reference or Collection field
	// points at. Empty for scalars.
	Target string
}

// AllowsOperator reports whether the (canonical) operator name is permitted
func (f FieldDescriptor) AllowsOperator(op string) bool {
	return f.Operators[op]
}

// Type describes one registered resource type. Instances are immutable
// after registration; the query engine only ever reads them.
type Type struct {
	// Name is the plural route segment, e.g. "locations"
	Name string

	// PrimaryKey names the field used for get-by-id lookups and as the
	// implicit final sort tiebreaker
	PrimaryKey string

	// Searchable controls whether search routes are exposed for this
	// resource. Listing and get-by-id are always available.
	Searchable bool

	fields []FieldDescriptor
	byName map[string]int
}

// NewType builds a resource type from an ordered set of field descriptors.
// The field order is preserved for schema documents.
func NewType(name, primaryKey string, fields []FieldDescriptor) *Type {
	t := &Type{
		Name:       name,
		PrimaryKey: primaryKey,
		Searchable: true,
		fields:     fields,
		byName:     make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		t.byName[f.Name] = i
	}
	return t
}

// Field returns the descriptor for the named field
func (t *Type) Field(name string) (FieldDescriptor, bool) {
	i, ok := t.byName[name]
	if !ok {
		return FieldDescriptor{}, false
	}
	return t.fields[i], true
}

// Fields returns the descriptors in registration order
func (t *Type) Fields() []FieldDescriptor {
	out := make([]FieldDescriptor, len(t.fields))
	copy(out, t.fields)
	return out
}
