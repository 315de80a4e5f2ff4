package merge

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// placeholderPattern matches inline placeholder occurrences.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}`)

// wholePattern matches a string that is exactly one placeholder.
var wholePattern = regexp.MustCompile(`^\{\{\s*([A-Za-z][A-Za-z0-9_]*)\s*\}\}$`)

// Field is a registered merge field.
type Field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// RegisterOptions tunes Register behavior.
type RegisterOptions struct {
	// Silent suppresses the change hook. Used when a field changes as a
	// side effect of another command, to avoid redundant reload events.
	Silent bool
}

// Registry holds merge fields in registration order.
//
// Not safe for concurrent use; the session's single-writer discipline
// covers it, same as the rest of the mutable state.
type Registry struct {
	order  []string
	values map[string]any

	// OnChange, when set, is invoked after a non-silent Register.
	OnChange func(name string)
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{values: make(map[string]any)}
}

// Register upserts a named field. Names are NFC-normalised so visually
// identical names refer to the same field.
func (r *Registry) Register(name string, value any, opts RegisterOptions) {
	name = norm.NFC.String(name)
	if _, ok := r.values[name]; !ok {
		r.order = append(r.order, name)
	}
	r.values[name] = value
	if !opts.Silent && r.OnChange != nil {
		r.OnChange(name)
	}
}

// Unregister removes a field. Reports whether it existed.
func (r *Registry) Unregister(name string) bool {
	name = norm.NFC.String(name)
	if _, ok := r.values[name]; !ok {
		return false
	}
	delete(r.values, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the value for a field name.
func (r *Registry) Lookup(name string) (any, bool) {
	v, ok := r.values[norm.NFC.String(name)]
	return v, ok
}

// Fields returns all fields in registration order.
func (r *Registry) Fields() []Field {
	out := make([]Field, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, Field{Name: name, Value: r.values[name]})
	}
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int { return len(r.order) }

// Template returns the canonical placeholder form for a field name.
func Template(name string) string {
	return "{{ " + name + " }}"
}

// ExtractFieldName returns the field name when v is exactly one placeholder,
// or "" otherwise. Only whole-string placeholders qualify; inline usage
// inside longer strings is substitution-only, never a typed binding.
func ExtractFieldName(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	m := wholePattern.FindStringSubmatch(norm.NFC.String(s))
	if m == nil {
		return ""
	}
	return m[1]
}

// Resolve substitutes every placeholder occurrence in s with registered
// values. Unknown names pass through unchanged. Non-string values are
// stringified because the result embeds into a longer string.
func (r *Registry) Resolve(s string) string {
	return placeholderPattern.ReplaceAllStringFunc(norm.NFC.String(s), func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		v, ok := r.values[name]
		if !ok {
			return match
		}
		return stringify(v)
	})
}

// ResolveValue substitutes a single value. A whole-string placeholder keeps
// the registered value's type (a "{{ COUNT }}" bound to 3 resolves to 3,
// not "3"); any other string goes through inline substitution.
func (r *Registry) ResolveValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if name := ExtractFieldName(s); name != "" {
		if val, ok := r.values[name]; ok {
			return val
		}
		return s
	}
	return r.Resolve(s)
}

// ResolveTree substitutes placeholders throughout a nested tree of maps,
// slices, and strings, returning a new tree. The input is not mutated.
func (r *Registry) ResolveTree(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = r.ResolveTree(elem)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = r.ResolveTree(elem)
		}
		return out
	case string:
		return r.ResolveValue(val)
	default:
		return v
	}
}

// ContainsPlaceholder reports whether s mentions any placeholder at all.
func ContainsPlaceholder(s string) bool {
	return placeholderPattern.MatchString(s)
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if f, ok := v.(float64); ok {
		// Trim the default %v float formatting for whole numbers so that
		// "{{ N }} items" with N=3 reads "3 items", not "3.000000 items".
		s := fmt.Sprintf("%g", f)
		return s
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}
