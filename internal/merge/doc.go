// Package merge implements the merge-field service: a registry of named
// placeholders with default values, template substitution over raw document
// trees, and binding detection.
//
// Placeholders use the whole-string form "{{ NAME }}" for typed values and
// may also appear inline inside longer strings, where the replacement is
// stringified. Bindings are detected once, on the raw pre-substitution
// document; they record where each placeholder lives so later commands can
// operate on resolved data and still regenerate the symbolic template for
// export, and so a manual override of a bound value can be detected as a
// broken binding.
package merge
