package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an underlying cause
func WrapDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors
var (
	ErrNotFound      = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput  = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConflict      = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized  = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden     = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState  = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// ErrMalformedRecord is matched by every MalformedRecordError via errors.Is.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError reports a stored record that failed conversion into
// its domain type.
type MalformedRecordError struct {
	Collection string
	RecordID   string
	Fields     map[string]string
}

// NewMalformedRecordError builds a MalformedRecordError from a field->reason map
func NewMalformedRecordError(collection, recordID string, fields map[string]string) *MalformedRecordError {
	return &MalformedRecordError{
		Collection: collection,
		RecordID:   recordID,
		Fields:     fields,
	}
}

func (e *MalformedRecordError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, reason := range e.Fields {
		parts = append(parts, field+": "+reason)
	}
	return fmt.Sprintf("malformed %s record %q: %s", e.Collection, e.RecordID, strings.Join(parts, "; "))
}

// Is reports whether target is ErrMalformedRecord
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}
