package query

import (
	"context"
	"errors"
	"sort"

	"github.com/openarchive/depot/pkg/resource"
)

// Query is the internal request object both search entry points and the
// listing routes converge on. Filter and OrderBy carry the raw decoded
// JSON shapes; Paginator is nil for plain (unpaginated) listings.
type Query struct {
	Filter    any
	OrderBy   any
	Paginator *Pagination
}

// Result is the outcome of one query: the ordered (and possibly sliced)
// records, plus page info when pagination was requested.
type Result struct {
	Items     []Record
	Paginator *PageInfo
}

// Engine orchestrates filter validation, record fetching, ordering and
// pagination. It is stateless per call beyond the immutable registry, so a
// single instance serves concurrent requests without locking.
type Engine struct {
	registry *resource.Registry
	source   RecordSource
}

// NewEngine creates a query engine over a record source
func NewEngine(registry *resource.Registry, source RecordSource) *Engine {
	return &Engine{
		registry: registry,
		source:   source,
	}
}

// Registry exposes the schema registry the engine validates against
func (e *Engine) Registry() *resource.Registry {
	return e.registry
}

// Execute runs one query. The orchestration order is fixed: validate
// filter, validate order, validate pagination, fetch, filter, sort,
// paginate. Any validation failure aborts before the record source is
// touched.
func (e *Engine) Execute(ctx context.Context, resourceName string, q Query) (*Result, error) {
	t, err := e.registry.Describe(resourceName)
	if err != nil {
		return nil, err
	}
	filter, err := CompileFilter(e.registry, t, q.Filter)
	if err != nil {
		return nil, err
	}
	ordering, err := PlanOrder(t, q.OrderBy)
	if err != nil {
		return nil, err
	}
	if q.Paginator != nil {
		if err := q.Paginator.Validate(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, &TimeoutError{Op: "list", Err: err}
	}

	records, err := e.source.List(ctx, resourceName)
	if err != nil {
		return nil, wrapSourceError("list", err)
	}

	matched := make([]Record, 0, len(records))
	for _, rec := range records {
		if filter.Match(rec) {
			matched = append(matched, rec)
		}
	}
	ordering.Sort(matched)

	if q.Paginator == nil {
		return &Result{Items: matched}, nil
	}
	items, info, err := Paginate(matched, *q.Paginator)
	if err != nil {
		return nil, err
	}
	return &Result{Items: items, Paginator: &info}, nil
}

// GetByKey bypasses filter, order and pagination: a direct primary-key
// lookup against the record source
func (e *Engine) GetByKey(ctx context.Context, resourceName, key string) (Record, error) {
	if _, err := e.registry.Describe(resourceName); err != nil {
		return nil, err
	}
	rec, ok, err := e.source.Get(ctx, resourceName, key)
	if err != nil {
		return nil, wrapSourceError("get", err)
	}
	if !ok {
		return nil, &NotFoundError{Resource: resourceName, Key: key}
	}
	return rec, nil
}

// SearchParameters describes what a caller may search on: the fields of a
// resource and the operators each permits. Served by the new_search route.
type SearchParameters struct {
	Resource   string                     `json:"resource"`
	Attributes map[string]AttributeParams `json:"attributes"`
}

// AttributeParams documents one searchable field
type AttributeParams struct {
	Kind       string   `json:"kind"`
	ValueType  string   `json:"value_type,omitempty"`
	Target     string   `json:"target,omitempty"`
	Operators  []string `json:"operators"`
	Comparable bool     `json:"comparable"`
}

// SearchParameters returns the searchable attributes of a resource type
func (e *Engine) SearchParameters(resourceName string) (*SearchParameters, error) {
	t, err := e.registry.Describe(resourceName)
	if err != nil {
		return nil, err
	}
	params := &SearchParameters{
		Resource:   t.Name,
		Attributes: make(map[string]AttributeParams),
	}
	for _, fd := range t.Fields() {
		ops := make([]string, 0, len(fd.Operators))
		for op := range fd.Operators {
			ops = append(ops, op)
		}
		sort.Strings(ops)
		attr := AttributeParams{
			Kind:       fd.Kind.String(),
			Operators:  ops,
			Comparable: fd.Comparable,
		}
		if fd.Kind == resource.Scalar {
			attr.ValueType = fd.ValueType.String()
		} else {
			attr.Target = fd.Target
		}
		params.Attributes[fd.Name] = attr
	}
	return params, nil
}

// wrapSourceError classifies record source failures: caller deadline and
// cancellation surface as TimeoutError, everything else as
// SourceUnavailableError
func wrapSourceError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &TimeoutError{Op: op, Err: err}
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return err
	}
	var se *SourceUnavailableError
	if errors.As(err, &se) {
		return err
	}
	return &SourceUnavailableError{Op: op, Err: err}
}
