// Package asset models the closed union of timeline asset kinds and the
// duration-probing contract used to resolve "auto" clip lengths.
//
// Asset-kind behavior is expressed as a tagged union with an exhaustive
// capability table, not an inheritance hierarchy. Adding a kind means adding
// a Type constant, a capability row, and wire fields; the compiler and the
// capability tests catch any switch left non-exhaustive.
package asset
