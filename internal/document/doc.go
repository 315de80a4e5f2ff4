// Package document holds the authoritative, serializable edit document:
// the symbolic timeline tree (tracks, clips, assets), output settings, and
// merge-field declarations.
//
// The document layer preserves exactly what the caller authored. Timing
// symbols ("auto", "end") and merge-field placeholder strings ("{{ NAME }}")
// are never silently resolved here; resolution belongs to the registry.
// Structural operations (add/remove/replace track and clip, output setters)
// mutate the tree without touching timing semantics.
//
// Validate checks a raw wire document against the embedded CUE schema and
// reports all violations as path+message pairs before any mutation is
// applied. A document that fails validation is never loaded (fail closed).
package document
