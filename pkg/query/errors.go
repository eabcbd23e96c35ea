package query

import "fmt"

// UnknownFieldError is returned when a filter or order expression names a
// field that is not whitelisted on the resource
type UnknownFieldError struct {
	Resource string
	Field    string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("searching on %s.%s is not permitted", e.Resource, e.Field)
}

// UnsupportedOperatorError is returned when an operator is not in the
// field's allowed set
type UnsupportedOperatorError struct {
	Resource string
	Field    string
	Operator string
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("the operator %q is not permitted for %s.%s", e.Operator, e.Resource, e.Field)
}

// TypeMismatchError is returned when a filter value cannot be coerced to
// the field's declared value type
type TypeMismatchError struct {
	Resource string
	Field    string
	Value    any
	Want     string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("invalid value %v for %s.%s: expected %s", e.Value, e.Resource, e.Field, e.Want)
}

// MalformedExpressionError is returned for structurally invalid filter or
// order input: wrong shapes, unknown combinators, excessive nesting
type MalformedExpressionError struct {
	Reason string
}

func (e *MalformedExpressionError) Error() string {
	return fmt.Sprintf("malformed expression: %s", e.Reason)
}

// InvalidPaginationError is returned when page or items_per_page is below 1
type InvalidPaginationError struct {
	Reason string
}

func (e *InvalidPaginationError) Error() string {
	return fmt.Sprintf("invalid pagination: %s", e.Reason)
}

// NotFoundError is returned by single-record lookups when the key is absent
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s record %q not found", e.Resource, e.Key)
}

// TimeoutError wraps a record source failure caused by the caller's
// deadline or cancellation
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("record source %s timed out: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// SourceUnavailableError wraps any other record source failure. Results are
// never degraded to partial sets; the failure is surfaced as-is.
type SourceUnavailableError struct {
	Op  string
	Err error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("record source %s failed: %v", e.Op, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error { return e.Err }
