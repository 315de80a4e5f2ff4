package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	r.Register("TITLE", "Hello", RegisterOptions{})
	r.Register("COUNT", 3.0, RegisterOptions{})

	v, ok := r.Lookup("TITLE")
	require.True(t, ok)
	assert.Equal(t, "Hello", v)

	_, ok = r.Lookup("MISSING")
	assert.False(t, ok)
}

func TestRegistry_UpsertKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register("A", 1, RegisterOptions{})
	r.Register("B", 2, RegisterOptions{})
	r.Register("A", 10, RegisterOptions{})

	fields := r.Fields()
	require.Len(t, fields, 2)
	assert.Equal(t, "A", fields[0].Name)
	assert.Equal(t, 10, fields[0].Value)
	assert.Equal(t, "B", fields[1].Name)
}

func TestRegistry_ChangeHookAndSilent(t *testing.T) {
	r := NewRegistry()
	var changed []string
	r.OnChange = func(name string) { changed = append(changed, name) }

	r.Register("A", 1, RegisterOptions{})
	r.Register("B", 2, RegisterOptions{Silent: true})
	r.Register("A", 3, RegisterOptions{})

	assert.Equal(t, []string{"A", "A"}, changed)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	r.Register("A", 1, RegisterOptions{})

	assert.True(t, r.Unregister("A"))
	assert.False(t, r.Unregister("A"))
	assert.Zero(t, r.Len())
}

func TestTemplate(t *testing.T) {
	assert.Equal(t, "{{ TITLE }}", Template("TITLE"))
}

func TestExtractFieldName(t *testing.T) {
	assert.Equal(t, "TITLE", ExtractFieldName("{{TITLE}}"))
	assert.Equal(t, "TITLE", ExtractFieldName("{{  TITLE  }}"))
	assert.Equal(t, "", ExtractFieldName("prefix {{TITLE}}"), "inline use is not a whole-string placeholder")
	assert.Equal(t, "", ExtractFieldName("{{ 9TITLE }}"))
	assert.Equal(t, "", ExtractFieldName(42))
}

func TestResolve(t *testing.T) {
	r := NewRegistry()
	r.Register("NAME", "World", RegisterOptions{})
	r.Register("N", 3.0, RegisterOptions{})

	assert.Equal(t, "Hello World", r.Resolve("Hello {{ NAME }}"))
	assert.Equal(t, "3 items", r.Resolve("{{N}} items"))
	assert.Equal(t, "Hi {{ UNKNOWN }}", r.Resolve("Hi {{ UNKNOWN }}"), "unknown names pass through")
}

func TestResolveValue_WholeStringKeepsType(t *testing.T) {
	r := NewRegistry()
	r.Register("LEN", 2.5, RegisterOptions{})

	assert.Equal(t, 2.5, r.ResolveValue("{{ LEN }}"))
	assert.Equal(t, "length is 2.5", r.ResolveValue("length is {{ LEN }}"))
	assert.Equal(t, "{{ NOPE }}", r.ResolveValue("{{ NOPE }}"))
	assert.Equal(t, 7, r.ResolveValue(7))
}

func TestResolveTree(t *testing.T) {
	r := NewRegistry()
	r.Register("TITLE", "Hello", RegisterOptions{})
	r.Register("LEN", 4.0, RegisterOptions{})

	in := map[string]any{
		"asset": map[string]any{
			"type": "title",
			"text": "{{ TITLE }}",
		},
		"length": "{{ LEN }}",
		"tags":   []any{"{{ TITLE }}", "static"},
	}

	out := r.ResolveTree(in).(map[string]any)
	assert.Equal(t, "Hello", out["asset"].(map[string]any)["text"])
	assert.Equal(t, 4.0, out["length"])
	assert.Equal(t, "Hello", out["tags"].([]any)[0])

	// Input tree untouched.
	assert.Equal(t, "{{ TITLE }}", in["asset"].(map[string]any)["text"])
}

func TestDetectBindings(t *testing.T) {
	r := NewRegistry()
	r.Register("TITLE", "Hello", RegisterOptions{})
	r.Register("LEN", 4.0, RegisterOptions{})

	clip := map[string]any{
		"asset": map[string]any{
			"type": "title",
			"text": "{{ TITLE }}",
		},
		"start":  "auto",
		"length": "{{LEN}}",
	}

	bindings := r.DetectBindings("clip-1", clip)
	require.Len(t, bindings, 2)

	// Deterministic walk: sorted keys put asset.text before length.
	assert.Equal(t, "asset.text", bindings[0].Path)
	assert.Equal(t, "{{ TITLE }}", bindings[0].Placeholder)
	assert.Equal(t, "Hello", bindings[0].Resolved)
	assert.Equal(t, "clip-1", bindings[0].ClipID)

	assert.Equal(t, "length", bindings[1].Path)
	assert.Equal(t, 4.0, bindings[1].Resolved)
}

func TestBinding_Broken(t *testing.T) {
	b := Binding{Path: "asset.text", Placeholder: "{{ TITLE }}", Resolved: "Hello"}

	assert.False(t, b.Broken("Hello"))
	assert.False(t, b.Broken("{{ TITLE }}"), "placeholder text itself is intact")
	assert.True(t, b.Broken("Overridden"))
}

func TestLookupAndSetPath(t *testing.T) {
	tree := map[string]any{
		"timeline": map[string]any{
			"tracks": []any{
				map[string]any{
					"clips": []any{
						map[string]any{"start": "auto"},
					},
				},
			},
		},
	}

	v, ok := LookupPath(tree, "timeline.tracks[0].clips[0].start")
	require.True(t, ok)
	assert.Equal(t, "auto", v)

	require.True(t, SetPath(tree, "timeline.tracks[0].clips[0].start", 2.0))
	v, ok = LookupPath(tree, "timeline.tracks[0].clips[0].start")
	require.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = LookupPath(tree, "timeline.missing[3].x")
	assert.False(t, ok)
	assert.False(t, SetPath(tree, "timeline.tracks[9].clips", 1))
}

func TestContainsPlaceholder(t *testing.T) {
	assert.True(t, ContainsPlaceholder("a {{ B }} c"))
	assert.False(t, ContainsPlaceholder("plain"))
}
