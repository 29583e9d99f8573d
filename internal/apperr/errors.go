// Package apperr defines the error kinds services return. Handlers translate
// them into the response envelope; no raw database error crosses a handler.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrUnauthorized = errors.New("no authenticated principal")
	ErrForbidden    = errors.New("permission denied")
)

type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return "validation failed: " + strings.Join(names, ", ")
}

func Validation(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %s to %s", e.From, e.To)
}

// SelfModificationError guards against self-lockout: deleting your own
// account or removing your own last administrative grant.
type SelfModificationError struct {
	Reason string
}

func (e *SelfModificationError) Error() string {
	return e.Reason
}

// PersistenceError wraps a failed datastore transaction. The mutation and
// its audit entry roll back together, so nothing partial was committed.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return "persistence failure: " + e.Err.Error()
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
