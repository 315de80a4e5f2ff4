package asset

import (
	"errors"
	"fmt"
)

// ProbeError reports that auto-length resolution could not determine the
// duration of an asset's media. It is recoverable: callers fall back to a
// configured default length and surface a warning.
type ProbeError struct {
	// Src identifies the media that failed to probe.
	Src string
	// Reason is a human-readable description.
	Reason string
}

// Error implements the error interface.
func (e *ProbeError) Error() string {
	if e.Src != "" {
		return fmt.Sprintf("probe %s: %s", e.Src, e.Reason)
	}
	return fmt.Sprintf("probe: %s", e.Reason)
}

// IsProbeError reports whether err is (or wraps) a ProbeError.
func IsProbeError(err error) bool {
	var pe *ProbeError
	return errors.As(err, &pe)
}

// UnsupportedTypeError reports an asset kind the engine does not know.
// Fatal for that clip's construction; the rest of the timeline continues.
type UnsupportedTypeError struct {
	Type string
}

// Error implements the error interface.
func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported asset type %q", e.Type)
}

// IsUnsupportedType reports whether err is (or wraps) an UnsupportedTypeError.
func IsUnsupportedType(err error) bool {
	var ue *UnsupportedTypeError
	return errors.As(err, &ue)
}
