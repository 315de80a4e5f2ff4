// Package command implements the reversible command log: the sole mutation
// path into the edit document and the runtime registry.
//
// Every command pairs its document mutation with the equivalent registry
// mutation inside a single Execute or Undo, so the two layers never drift.
// Commands capture snapshots before mutating and commit only after all
// sub-steps (including asset probing) succeed: a failed Execute leaves both
// layers in their pre-command state.
//
// The Log is a truncatable stack with a cursor. Executing while rewound
// discards forward history; after any successful Execute,
// Len() == Cursor()+1. Execution is serialized: a command must finish
// settling before the next may begin.
package command
