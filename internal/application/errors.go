package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned when the acting user lacks the role an operation requires.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("application: not found")
	// ErrAlreadyExists is returned when a create would duplicate a unique field.
	ErrAlreadyExists = errors.New("application: already exists")
	// ErrInvalidCredentials is returned when no active account matches a login.
	ErrInvalidCredentials = errors.New("application: invalid credentials")
	// ErrInvalidTransition is returned when a booking is not in the status an action expects.
	ErrInvalidTransition = errors.New("application: invalid status transition")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error lists the offending fields in a stable order.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v.FieldErrors))
	for field := range v.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	if _, exists := v.FieldErrors[field]; !exists {
		v.FieldErrors[field] = message
	}
}
