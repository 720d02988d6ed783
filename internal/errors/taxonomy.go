package errors

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ValidationError is a local, synchronous input failure. It is raised before
// any store or blob call is made.
type ValidationError struct {
	Code    string
	Message string
	Fields  map[string]string // field -> reason
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(parts, ", "))
}

// NewFieldError builds a ValidationError about a single field.
func NewFieldError(code, field, reason string) *ValidationError {
	return &ValidationError{
		Code:    code,
		Message: "Los datos ingresados no son válidos",
		Fields:  map[string]string{field: reason},
	}
}

// ConflictError means the request collides with existing state (slug taken,
// platform already added, slot full). Nothing was mutated.
type ConflictError struct {
	Code    string
	Field   string
	Message string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TransportError wraps a failed record store or blob store call.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError returns nil when err is nil.
func NewTransportError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransportError{Op: op, Err: err}
}

// SubmissionError reports which stage of a profile submission failed.
type SubmissionError struct {
	Stage string
	Err   error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submission failed at %s: %v", e.Stage, e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// StatusError is a business error with a fixed HTTP status, used for the
// not-found and forbidden sentinels declared by services.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

func (e *StatusError) Error() string {
	return e.Message
}

func NotFoundError(code, message string) *StatusError {
	return &StatusError{Status: http.StatusNotFound, Code: code, Message: message}
}

func UnauthorizedError(code, message string) *StatusError {
	return &StatusError{Status: http.StatusUnauthorized, Code: code, Message: message}
}

func ForbiddenError(code, message string) *StatusError {
	return &StatusError{Status: http.StatusForbidden, Code: code, Message: message}
}

func BadRequestError(code, message string) *StatusError {
	return &StatusError{Status: http.StatusBadRequest, Code: code, Message: message}
}

// NewConflict builds a ConflictError about field.
func NewConflict(code, field, message string) *ConflictError {
	return &ConflictError{Code: code, Field: field, Message: message}
}
