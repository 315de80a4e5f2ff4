// Package timing provides the symbolic timing value union and the pure
// resolution functions that turn symbolic timings into concrete seconds.
//
// This package contains value types and pure functions only. All other
// internal packages may import timing; timing imports nothing internal.
//
// A timing value on the wire is one of:
//   - a non-negative number of seconds
//   - the string "auto" (computed from sibling clip positions)
//   - the string "end"  (length only: stretch to the current timeline end)
//
// The resolvers are deterministic and side-effect free. Resolution order is
// owned by the registry's propagation pass, not by this package.
package timing
