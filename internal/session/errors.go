// Package session implements the analysis session controller: the single
// owner of the current result and the sequencing of every AI operation.
package session

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned when an operation of the same kind is already in flight.
	ErrBusy = errors.New("an analysis is already in progress")
	// ErrNoResult is returned by operations that need a current result.
	ErrNoResult = errors.New("no analysis is loaded")
	// ErrNotFound is returned for unknown archive ids.
	ErrNotFound = errors.New("analysis not found")
	// ErrSuperseded is returned when the current result was replaced while
	// an enrichment was in flight. The enrichment is discarded.
	ErrSuperseded = errors.New("the analysis changed while the request was running")
)

// ValidationError is bad or missing input, detected before any I/O.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// ExtractionError means no document yielded usable text.
type ExtractionError struct {
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction error: %s", e.Message)
}
