// Package event defines the closed set of outbound notifications emitted by
// the edit session. Cross-component notification is a typed message channel
// with exhaustive variants, not an ad hoc emitter.
package event

// Event is the sealed union of session notifications.
// Only the types in this package implement it.
type Event interface {
	event()
}

// ClipUpdated reports that a single clip's resolved state changed.
type ClipUpdated struct {
	Track int
	Clip  int
	ID    string
}

func (ClipUpdated) event() {}

// TimelineUpdated reports that timing propagation changed the timeline,
// carrying the new total duration.
type TimelineUpdated struct {
	Duration float64
}

func (TimelineUpdated) event() {}

// EditChanged reports a document-level change: a command executed, was
// undone or redone, or a hot reload applied. Emitted once per mutation,
// coalescing any finer-grained events under session batching.
type EditChanged struct{}

func (EditChanged) event() {}

// ClipError reports a per-clip load failure. The session stays alive; the
// failed clip keeps its slot so document and registry stay mirrored.
type ClipError struct {
	Track int
	Clip  int
	ID    string
	Err   error
}

func (ClipError) event() {}

// ClipWarning reports a recovered per-clip condition, such as an auto
// length that fell back to the default after a failed probe.
type ClipWarning struct {
	Track int
	Clip  int
	ID    string
	Err   error
}

func (ClipWarning) event() {}

// MergeFieldChanged reports a non-silent merge field registration.
type MergeFieldChanged struct {
	Name string
}

func (MergeFieldChanged) event() {}
