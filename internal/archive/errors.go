// Package archive persists saved analyses as a single JSON list under a
// fixed key, rewritten wholesale on every change.
package archive

import "fmt"

// ArchiveError is a persistence failure, for example a full or unreachable store.
//
//nolint:revive // ArchiveError reads better at call sites than archive.Error
type ArchiveError struct {
	Op      string
	Message string
	Cause   error
}

func (e *ArchiveError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("archive %s: %s: %v", e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("archive %s: %s", e.Op, e.Message)
}

func (e *ArchiveError) Unwrap() error {
	return e.Cause
}
