// Package apierror defines the error taxonomy shared by services and the
// HTTP boundary. Every failure a service can return is one of three kinds:
// authorization denial (blanket, no field detail), not-found, or a
// field-keyed validation failure. The Fiber error handler maps them to
// 403 / 404 / 422; anything else becomes a 500 without leaking internals.
package apierror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Denied is the blanket authorization failure. It intentionally carries no
// detail about which grant was missing.
var Denied = &AuthorizationError{}

type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "forbidden"
}

// NotFoundError marks a referenced entity that does not exist or is not
// visible under the current trashed/active filter.
type NotFoundError struct {
	Resource string
}

func NotFound(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

// ValidationError maps field paths (e.g. "items.2.quantity") to one or more
// messages. Collaborators key off the paths to place inline errors, so the
// shape is part of the contract.
type ValidationError struct {
	Fields map[string][]string `json:"fields"`
}

func NewValidation() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add appends a message under a field path and returns the error so single
// violations can be built in one expression.
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Fields[field] = append(e.Fields[field], message)
	return e
}

// Addf is Add with formatting.
func (e *ValidationError) Addf(field, format string, args ...interface{}) *ValidationError {
	return e.Add(field, fmt.Sprintf(format, args...))
}

// Empty reports whether any violation was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// ErrOrNil returns nil when no violation was recorded, so builders can end
// with a single return.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// IsDenied, IsNotFound and AsValidation let the HTTP boundary classify
// wrapped service errors.

func IsDenied(err error) bool {
	var target *AuthorizationError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func AsValidation(err error) (*ValidationError, bool) {
	var target *ValidationError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}
