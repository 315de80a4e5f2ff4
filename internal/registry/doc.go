// Package registry holds the resolved runtime form of the timeline: tracks
// and clips with concrete second timings and substituted values, mirrored
// structurally against the symbolic document.
//
// Clips get a stable generated ID at creation; positional (track, clip)
// lookups are derived from an index map on demand, so structural edits
// cannot silently re-target the wrong clip.
//
// All mutation flows through the command path. The registry itself performs
// no locking; the session's single logical writer is the concurrency model,
// as in a single-writer event loop.
package registry
