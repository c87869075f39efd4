// Package ingestion turns uploaded evaluation documents into plain text.
package ingestion

import "fmt"

// CorruptDocumentError means a document could not be parsed: it is damaged,
// protected or of an unsupported type.
type CorruptDocumentError struct {
	Name    string
	Message string
	Cause   error
}

func (e *CorruptDocumentError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("document %q: %s: %v", e.Name, e.Message, e.Cause)
	}
	return fmt.Sprintf("document %q: %s", e.Name, e.Message)
}

func (e *CorruptDocumentError) Unwrap() error {
	return e.Cause
}
