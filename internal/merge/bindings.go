package merge

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Binding records one placeholder occurrence detected on the raw,
// pre-substitution document.
type Binding struct {
	// ClipID identifies the owning runtime clip ("" for non-clip paths
	// such as timeline.background).
	ClipID string `json:"clip_id,omitempty"`
	// Path is the dotted property path relative to the walked root,
	// e.g. "asset.text" or "start".
	Path string `json:"path"`
	// Placeholder is the original placeholder text, verbatim.
	Placeholder string `json:"placeholder"`
	// Resolved is the value the placeholder substituted to at load time.
	// A later mismatch between Resolved and the document's current value
	// at Path means the binding was manually overridden (broken).
	Resolved any `json:"resolved"`
}

// DetectBindings walks an arbitrary raw value tree and records a binding for
// every whole-string placeholder leaf. Walk order is deterministic: map keys
// sorted, slices in index order.
func (r *Registry) DetectBindings(clipID string, root any) []Binding {
	var out []Binding
	r.detect(clipID, "", root, &out)
	return out
}

func (r *Registry) detect(clipID, path string, v any, out *[]Binding) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			r.detect(clipID, joinPath(path, k), val[k], out)
		}
	case []any:
		for i, elem := range val {
			r.detect(clipID, fmt.Sprintf("%s[%d]", path, i), elem, out)
		}
	case string:
		name := ExtractFieldName(val)
		if name == "" {
			return
		}
		resolved := r.ResolveValue(val)
		*out = append(*out, Binding{
			ClipID:      clipID,
			Path:        path,
			Placeholder: val,
			Resolved:    resolved,
		})
	}
}

// Broken reports whether the document's current value at the binding's path
// no longer matches what the placeholder resolved to.
func (b Binding) Broken(current any) bool {
	if reflect.DeepEqual(current, b.Resolved) {
		return false
	}
	// The placeholder itself still counts as intact: export re-emits it.
	if s, ok := current.(string); ok && s == b.Placeholder {
		return false
	}
	return true
}

// LookupPath reads the value at a dotted path (with [i] index segments)
// from a tree. Returns false when any segment is missing.
func LookupPath(root any, path string) (any, bool) {
	cur := root
	for _, seg := range splitPath(path) {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg.key]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
		if seg.indexed {
			arr, ok := cur.([]any)
			if !ok || seg.index < 0 || seg.index >= len(arr) {
				return nil, false
			}
			cur = arr[seg.index]
		}
	}
	return cur, true
}

// SetPath writes a value at a dotted path within a tree.
// Returns false when any intermediate segment is missing.
func SetPath(root any, path string, value any) bool {
	segs := splitPath(path)
	if len(segs) == 0 {
		return false
	}
	cur := root
	for i, seg := range segs {
		last := i == len(segs)-1
		node, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		if seg.indexed {
			arr, ok := node[seg.key].([]any)
			if !ok || seg.index < 0 || seg.index >= len(arr) {
				return false
			}
			if last {
				arr[seg.index] = value
				return true
			}
			cur = arr[seg.index]
			continue
		}
		if last {
			node[seg.key] = value
			return true
		}
		next, ok := node[seg.key]
		if !ok {
			return false
		}
		cur = next
	}
	return false
}

type pathSegment struct {
	key     string
	indexed bool
	index   int
}

func splitPath(path string) []pathSegment {
	if path == "" {
		return nil
	}
	parts := strings.Split(path, ".")
	segs := make([]pathSegment, 0, len(parts))
	for _, p := range parts {
		seg := pathSegment{key: p}
		if open := strings.IndexByte(p, '['); open >= 0 && strings.HasSuffix(p, "]") {
			seg.key = p[:open]
			var idx int
			if _, err := fmt.Sscanf(p[open:], "[%d]", &idx); err == nil {
				seg.indexed = true
				seg.index = idx
			}
		}
		segs = append(segs, seg)
	}
	return segs
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
