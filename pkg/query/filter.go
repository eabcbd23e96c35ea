package query

import (
	"fmt"
	"regexp"

	"github.com/openarchive/depot/pkg/resource"
)

// MaxFilterDepth bounds filter tree nesting. The recursive general form
// subsumes any shallow shape; the limit keeps worst-case validation and
// evaluation cost proportional to the request size.
const MaxFilterDepth = 32

// operatorAliases maps the alternative operator spellings accepted on the
// wire to their canonical names
var operatorAliases = map[string]string{
	"=":      resource.OpExact,
	"!=":     resource.OpNotEqual,
	"like":   resource.OpContains,
	"ilike":  resource.OpIContains,
	"regexp": resource.OpRegex,
	"<":      resource.OpLt,
	">":      resource.OpGt,
	"<=":     resource.OpLte,
	">=":     resource.OpGte,
}

// ResolveOperator returns the canonical name for an operator spelling
func ResolveOperator(op string) string {
	if canonical, ok := operatorAliases[op]; ok {
		return canonical
	}
	return op
}

// filterNode is a validated, evaluable node of a filter tree
type filterNode interface {
	eval(rec Record) bool
}

type andNode struct {
	children []filterNode
}

func (n *andNode) eval(rec Record) bool {
	for _, c := range n.children {
		if !c.eval(rec) {
			return false
		}
	}
	return true
}

type orNode struct {
	children []filterNode
}

func (n *orNode) eval(rec Record) bool {
	for _, c := range n.children {
		if c.eval(rec) {
			return true
		}
	}
	return false
}

type notNode struct {
	child filterNode
}

func (n *notNode) eval(rec Record) bool {
	return !n.child.eval(rec)
}

// leafNode applies one operator to a scalar field of the record
type leafNode struct {
	field string
	op    string
	value any
	re    *regexp.Regexp
}

func (n *leafNode) eval(rec Record) bool {
	return evalOperator(n.op, rec[n.field], n.value, n.re)
}

// isNullNode tests presence/absence of a field value
type isNullNode struct {
	field string
	want  bool
}

func (n *isNullNode) eval(rec Record) bool {
	return isNullValue(rec[n.field]) == n.want
}

// traverseNode evaluates an inner node against a linked record (reference
// field) or against every element of a linked collection
type traverseNode struct {
	field string
	kind  resource.FieldKind
	inner filterNode
}

func (n *traverseNode) eval(rec Record) bool {
	v := rec[n.field]
	if n.kind == resource.Reference {
		child, ok := asRecord(v)
		if !ok {
			return false
		}
		return n.inner.eval(child)
	}
	children, ok := asRecordSlice(v)
	if !ok {
		return false
	}
	for _, child := range children {
		if n.inner.eval(child) {
			return true
		}
	}
	return false
}

type matchAllNode struct{}

func (matchAllNode) eval(Record) bool { return true }

// Filter is a validated, compiled filter expression. A nil *Filter matches
// every record.
type Filter struct {
	root filterNode
}

// Match reports whether the record satisfies the filter. Evaluation is
// pure: no side effects, so boolean short-circuiting is unobservable.
func (f *Filter) Match(rec Record) bool {
	if f == nil || f.root == nil {
		return true
	}
	return f.root.eval(rec)
}

// CompileFilter parses and validates a raw filter expression (decoded JSON
// nesting) against the resource type, returning a compiled filter. A nil
// raw expression compiles to match-all. All validation failures are
// reported before any record source access happens.
func CompileFilter(reg *resource.Registry, t *resource.Type, raw any) (*Filter, error) {
	if raw == nil {
		return &Filter{root: matchAllNode{}}, nil
	}
	root, err := compileNode(reg, t, raw, 0)
	if err != nil {
		return nil, err
	}
	return &Filter{root: root}, nil
}

func compileNode(reg *resource.Registry, t *resource.Type, raw any, depth int) (filterNode, error) {
	if depth > MaxFilterDepth {
		return nil, &MalformedExpressionError{Reason: fmt.Sprintf("filter nesting exceeds depth %d", MaxFilterDepth)}
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "filter node must be an array"}
	}
	if len(list) == 0 {
		return nil, &MalformedExpressionError{Reason: "filter node must not be empty"}
	}
	head, ok := list[0].(string)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "filter node must start with a string"}
	}

	switch head {
	case "and", "or":
		if len(list) != 2 {
			return nil, &MalformedExpressionError{Reason: fmt.Sprintf("%q takes exactly one list of child expressions", head)}
		}
		rawChildren, ok := list[1].([]any)
		if !ok || len(rawChildren) == 0 {
			return nil, &MalformedExpressionError{Reason: fmt.Sprintf("%q requires a non-empty list of child expressions", head)}
		}
		children := make([]filterNode, 0, len(rawChildren))
		for _, rawChild := range rawChildren {
			child, err := compileNode(reg, t, rawChild, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		if head == "and" {
			return &andNode{children: children}, nil
		}
		return &orNode{children: children}, nil

	case "not":
		if len(list) != 2 {
			return nil, &MalformedExpressionError{Reason: `"not" takes exactly one child expression`}
		}
		child, err := compileNode(reg, t, list[1], depth+1)
		if err != nil {
			return nil, err
		}
		return &notNode{child: child}, nil

	default:
		return compileLeaf(reg, t, list)
	}
}

// compileLeaf validates a 3-, 4- or 5-element leaf:
//
//	[resource, field, operator]            isnull shorthand
//	[resource, field, operator, value]     scalar or relation presence test
//	[resource, refField, field, operator, value]  traversal into a relation
func compileLeaf(reg *resource.Registry, t *resource.Type, list []any) (filterNode, error) {
	if len(list) < 3 || len(list) > 5 {
		return nil, &MalformedExpressionError{Reason: "filter leaf must have 3, 4 or 5 elements"}
	}
	resName := list[0].(string)
	if resName != t.Name {
		return nil, &MalformedExpressionError{Reason: fmt.Sprintf("searching on the %s resource is not permitted here (expected %s)", resName, t.Name)}
	}
	fieldName, ok := list[1].(string)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "filter leaf field must be a string"}
	}
	fd, ok := t.Field(fieldName)
	if !ok {
		return nil, &UnknownFieldError{Resource: t.Name, Field: fieldName}
	}

	if len(list) == 5 {
		return compileTraversal(reg, t, fd, list)
	}

	rawOp, ok := list[2].(string)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "filter leaf operator must be a string"}
	}
	op := ResolveOperator(rawOp)
	if !fd.AllowsOperator(op) {
		return nil, &UnsupportedOperatorError{Resource: t.Name, Field: fieldName, Operator: rawOp}
	}

	var value any
	if len(list) == 4 {
		value = list[3]
	} else if op != resource.OpIsNull {
		return nil, &MalformedExpressionError{Reason: fmt.Sprintf("operator %q requires a value", rawOp)}
	}

	if fd.Kind != resource.Scalar {
		return compileRelationLeaf(t, fd, op, rawOp, value)
	}
	return compileScalarLeaf(t, fd, op, rawOp, value)
}

func compileScalarLeaf(t *resource.Type, fd resource.FieldDescriptor, op, rawOp string, value any) (filterNode, error) {
	switch op {
	case resource.OpIsNull:
		want, err := isNullOperand(t, fd, value)
		if err != nil {
			return nil, err
		}
		return &isNullNode{field: fd.Name, want: want}, nil

	case resource.OpRegex:
		pattern, ok := value.(string)
		if !ok {
			return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: "regular expression"}
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: "regular expression"}
		}
		return &leafNode{field: fd.Name, op: op, re: re}, nil

	case resource.OpIn:
		rawSet, ok := value.([]any)
		if !ok {
			return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: "list of " + fd.ValueType.String()}
		}
		set := make([]any, 0, len(rawSet))
		for _, member := range rawSet {
			coerced, ok := coerceValue(member, fd.ValueType)
			if !ok {
				return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: member, Want: fd.ValueType.String()}
			}
			set = append(set, coerced)
		}
		return &leafNode{field: fd.Name, op: op, value: set}, nil

	case resource.OpGt, resource.OpGte, resource.OpLt, resource.OpLte:
		if !fd.Comparable {
			return nil, &UnsupportedOperatorError{Resource: t.Name, Field: fd.Name, Operator: rawOp}
		}
		fallthrough

	default:
		coerced, ok := coerceValue(value, fd.ValueType)
		if !ok {
			return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: fd.ValueType.String()}
		}
		return &leafNode{field: fd.Name, op: op, value: coerced}, nil
	}
}

// compileRelationLeaf handles 4-element leaves on reference/collection
// fields. Only presence tests are expressible: exact/ne against null are
// sugar for isnull, as in the original API.
func compileRelationLeaf(t *resource.Type, fd resource.FieldDescriptor, op, rawOp string, value any) (filterNode, error) {
	switch op {
	case resource.OpIsNull:
		want, err := isNullOperand(t, fd, value)
		if err != nil {
			return nil, err
		}
		return &isNullNode{field: fd.Name, want: want}, nil
	case resource.OpExact, resource.OpNotEqual:
		if value != nil {
			return nil, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: "null"}
		}
		return &isNullNode{field: fd.Name, want: op == resource.OpExact}, nil
	default:
		return nil, &UnsupportedOperatorError{Resource: t.Name, Field: fd.Name, Operator: rawOp}
	}
}

// compileTraversal handles the 5-element leaf form, comparing a scalar
// field of the linked record(s)
func compileTraversal(reg *resource.Registry, t *resource.Type, fd resource.FieldDescriptor, list []any) (filterNode, error) {
	if fd.Kind == resource.Scalar {
		return nil, &MalformedExpressionError{Reason: fmt.Sprintf("%s.%s does not represent a relation", t.Name, fd.Name)}
	}
	target, err := reg.Describe(fd.Target)
	if err != nil {
		return nil, err
	}
	subFieldName, ok := list[2].(string)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "traversal leaf field must be a string"}
	}
	subField, ok := target.Field(subFieldName)
	if !ok {
		return nil, &UnknownFieldError{Resource: target.Name, Field: subFieldName}
	}
	if subField.Kind != resource.Scalar {
		return nil, &MalformedExpressionError{Reason: fmt.Sprintf("traversal into %s.%s must end on a scalar field", target.Name, subFieldName)}
	}
	rawOp, ok := list[3].(string)
	if !ok {
		return nil, &MalformedExpressionError{Reason: "filter leaf operator must be a string"}
	}
	op := ResolveOperator(rawOp)
	if !subField.AllowsOperator(op) {
		return nil, &UnsupportedOperatorError{Resource: target.Name, Field: subFieldName, Operator: rawOp}
	}
	inner, err := compileScalarLeaf(target, subField, op, rawOp, list[4])
	if err != nil {
		return nil, err
	}
	return &traverseNode{field: fd.Name, kind: fd.Kind, inner: inner}, nil
}

func isNullOperand(t *resource.Type, fd resource.FieldDescriptor, value any) (bool, error) {
	switch v := value.(type) {
	case nil:
		return true, nil
	case bool:
		return v, nil
	default:
		return false, &TypeMismatchError{Resource: t.Name, Field: fd.Name, Value: value, Want: "boolean"}
	}
}
