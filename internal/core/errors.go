package core

import (
	"fmt"
	"strings"
)

// ValidationError reports malformed input. It is raised before any persistence
// and carries field-level messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// newValidationError builds a single-field validation error.
func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// NotFoundError reports that a referenced record does not exist or does not
// belong to the caller's company. Tenant-isolation misses are deliberately
// indistinguishable from genuine absence.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Ref)
}

func notFound(resource string, ref any) *NotFoundError {
	return &NotFoundError{Resource: resource, Ref: fmt.Sprint(ref)}
}

// IllegalTransitionError reports a status-machine violation: the attempted
// action is not legal from the document's current status. It is a business-rule
// error, distinct from input validation.
type IllegalTransitionError struct {
	DocType string
	Action  Action
	Status  string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s in status %q", e.Action, e.DocType, e.Status)
}

// DuplicateNumberError reports that a generated document number collided with
// an existing one. Only the scan-based generator can produce this under
// concurrent creation; the create path retries once before surfacing it.
type DuplicateNumberError struct {
	Number string
}

func (e *DuplicateNumberError) Error() string {
	return fmt.Sprintf("document number %s already exists", e.Number)
}
