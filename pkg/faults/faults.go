// Package faults defines the error kinds shared by the scoring, winner and
// archival domains and maps them onto HTTP status codes.
//
// Every domain error wraps exactly one of the sentinel kinds so callers can
// branch with errors.Is regardless of which package produced the error.
package faults

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds.
var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrStorage     = errors.New("storage failure")
	ErrConsistency = errors.New("consistency failure")
)

// ValidationError reports a rejected input before any write took place.
// Field uses the JSON name of the offending input; Message is the full
// user-facing sentence and already names the field.
type ValidationError struct {
	Field   string
	Message string
}

// Validation creates a ValidationError for the named field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// StorageError reports that the underlying store was unavailable or a write failed.
type StorageError struct {
	Op  string
	Err error
}

// Storage wraps err as a StorageError for the named operation.
// Returns nil for a nil err.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorage, e.Err}
}

// ConsistencyError reports that evaluations were written to the archive but
// could not be purged from the active store. The stores need manual
// reconciliation before the next rollover.
type ConsistencyError struct {
	FromMonth string
	Archived  int
	Purged    int64
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf(
		"archived %d evaluations from %s but purged %d from the active store: %v",
		e.Archived, e.FromMonth, e.Purged, e.Err,
	)
}

func (e *ConsistencyError) Unwrap() []error {
	return []error{ErrConsistency, e.Err}
}

// MapHTTPStatus maps error kinds to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
