package session

import (
	"fmt"
	"strings"

	"github.com/tarlow/cutline/internal/document"
)

// InvalidEditError reports that a raw edit failed schema validation and was
// not loaded. Nothing is mutated when this error is returned.
type InvalidEditError struct {
	Errors []document.ValidationError
}

// Error implements the error interface.
func (e *InvalidEditError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("session: invalid edit: %s", e.Errors[0].Error())
	}
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Error()
	}
	return fmt.Sprintf("session: invalid edit (%d errors): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// ClipLoadError reports a per-clip construction failure during load. The
// session survives: the failed clip keeps its slot with the error recorded,
// and the failure is surfaced through the event channel.
type ClipLoadError struct {
	Track int
	Clip  int
	Err   error
}

// Error implements the error interface.
func (e *ClipLoadError) Error() string {
	return fmt.Sprintf("session: clip [%d][%d]: %v", e.Track, e.Clip, e.Err)
}

// Unwrap returns the underlying cause.
func (e *ClipLoadError) Unwrap() error { return e.Err }
