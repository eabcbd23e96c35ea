package resource

import (
	"fmt"
	"sort"
)

// DuplicateResourceError is returned when a resource type name is
// registered twice
type DuplicateResourceError struct {
	Name string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("resource type %q is already registered", e.Name)
}

// UnknownResourceError is returned when a resource type name has not
// been registered
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource type %q", e.Name)
}

// Registry holds the registered resource types. It is populated once at
// startup and read-only afterwards, so lookups need no locking.
type Registry struct {
	types map[string]*Type
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*Type),
	}
}

// Register adds a resource type. Registering the same name twice fails
// with DuplicateResourceError.
func (r *Registry) Register(t *Type) error {
	if t.Name == "" {
		return fmt.Errorf("resource type name must not be empty")
	}
	if _, exists := r.types[t.Name]; exists {
		return &DuplicateResourceError{Name: t.Name}
	}
	if _, ok := t.Field(t.PrimaryKey); !ok {
		return fmt.Errorf("resource type %q: primary key %q is not a declared field", t.Name, t.PrimaryKey)
	}
	r.types[t.Name] = t
	return nil
}

// Describe returns the descriptor for a registered resource type, or
// UnknownResourceError when absent
func (r *Registry) Describe(name string) (*Type, error) {
	t, ok := r.types[name]
	if !ok {
		return nil, &UnknownResourceError{Name: name}
	}
	return t, nil
}

// Names returns the registered resource type names in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
