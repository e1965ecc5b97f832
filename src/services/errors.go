package services

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrStudentNotFound indicates the requested student does not exist
	ErrStudentNotFound = errors.New("student not found")

	// ErrEmailTaken indicates a student with the same email is already registered
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAdminNotFound indicates the admin referenced by a session does not exist
	ErrAdminNotFound = errors.New("admin not found")
)

// ValidationError carries per-field messages for a rejected form
type ValidationError struct {
	Fields map[string]string
	cause  error
}

// NewValidationError creates an empty validation error
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field, keeping the first one
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap exposes the underlying sentinel (e.g. ErrEmailTaken)
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// emailTakenError builds the validation error returned for a duplicate email
func emailTakenError() *ValidationError {
	verr := NewValidationError()
	verr.Add("email", "This email is already registered.")
	verr.cause = ErrEmailTaken
	return verr
}
