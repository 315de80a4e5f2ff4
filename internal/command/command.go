package command

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
	"github.com/tarlow/cutline/internal/merge"
	"github.com/tarlow/cutline/internal/registry"
)

// Command is a reversible unit of mutation against document + registry.
// A command carries whatever snapshot data it needs for reversal, typically
// deep copies of the previous and next clip configuration.
type Command interface {
	// Name identifies the command for logs and journals.
	Name() string
	// Execute applies the command to both layers, or neither.
	Execute(ctx *Context) error
	// Undo restores both layers to their pre-Execute state.
	Undo(ctx *Context) error
}

// Context is the single surface commands mutate through: it bundles the
// document, the registry, the merge registry, and the binding set so a
// command applies its change to every layer in one place.
type Context struct {
	Ctx      context.Context
	Doc      *document.Edit
	Reg      *registry.Registry
	Merge    *merge.Registry
	Bindings *merge.BindingSet
	Probe    asset.DurationProber

	// DefaultLength is the fallback clip length in seconds when an auto
	// length cannot be probed.
	DefaultLength float64

	// Emit delivers an outbound event. Always non-nil (the session wires
	// a discarding emitter when nobody listens).
	Emit func(event.Event)
}

// BuildClip constructs a runtime clip from a document clip: resolves the
// timing symbols, probing the asset for an "auto" length.
//
// A probe failure is recovered by falling back to DefaultLength and is
// reported through the returned warning; an unsupported asset type is
// returned as the clip's construction error. The id is reused when
// non-empty so updates keep stable identity.
func BuildClip(ctx *Context, docClip document.Clip, id string) (*registry.Clip, error, error) {
	if id == "" {
		id = ctx.Reg.NewID()
	}
	clip := &registry.Clip{
		ID:       id,
		Document: docClip.Clone(),
	}

	if docClip.Asset == nil {
		clip.Err = &asset.UnsupportedTypeError{Type: ""}
		return clip, nil, clip.Err
	}
	if _, err := asset.Lookup(docClip.Asset.Type); err != nil {
		clip.Err = err
		return clip, nil, err
	}

	if start, ok := docClip.Start.Abs(); ok {
		clip.Start = start
	} else {
		// "auto" start resolves during propagation.
		clip.AutoStart = true
	}

	var warn error
	switch {
	case docClip.Length.IsEnd():
		clip.EndLength = true
	case docClip.Length.IsAuto():
		clip.AutoLength = true
		length, err := probeLength(ctx, docClip.Asset)
		if err != nil {
			if !asset.IsProbeError(err) {
				clip.Err = err
				return clip, nil, err
			}
			length = ctx.DefaultLength
			warn = err
		}
		clip.Length = length
	default:
		length, _ := docClip.Length.Abs()
		clip.Length = length
	}

	return clip, warn, nil
}

func probeLength(ctx *Context, a *asset.Asset) (float64, error) {
	if ctx.Probe == nil {
		return 0, &asset.ProbeError{Src: a.Src, Reason: "no prober configured"}
	}
	c := ctx.Ctx
	if c == nil {
		c = context.Background()
	}
	return ctx.Probe.Probe(c, a)
}

// clipPathPattern matches document paths addressing a clip, capturing the
// track index, clip index, and the remainder within the clip.
var clipPathPattern = regexp.MustCompile(`^timeline\.tracks\[(\d+)\]\.clips\[(\d+)\](?:\.(.+))?$`)

// ClipPosition parses a document path of the form
// "timeline.tracks[i].clips[j].rest" into its components.
func ClipPosition(path string) (trackIdx, clipIdx int, rest string, ok bool) {
	m := clipPathPattern.FindStringSubmatch(path)
	if m == nil {
		return 0, 0, "", false
	}
	trackIdx, _ = strconv.Atoi(m[1])
	clipIdx, _ = strconv.Atoi(m[2])
	return trackIdx, clipIdx, m[3], true
}

// setClipField writes a resolved value at a clip-relative path by editing
// the clip's tree form and decoding it back. Returns the updated clip.
func setClipField(clip document.Clip, rest string, value any) (document.Clip, error) {
	data, err := json.Marshal(clip)
	if err != nil {
		return document.Clip{}, fmt.Errorf("command: marshal clip: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return document.Clip{}, fmt.Errorf("command: clip tree: %w", err)
	}
	if !merge.SetPath(tree, rest, value) {
		return document.Clip{}, fmt.Errorf("command: path %q not found in clip", rest)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return document.Clip{}, fmt.Errorf("command: marshal clip tree: %w", err)
	}
	var updated document.Clip
	if err := json.Unmarshal(out, &updated); err != nil {
		return document.Clip{}, fmt.Errorf("command: decode updated clip: %w", err)
	}
	return updated, nil
}

// clipField reads the value at a clip-relative path from the clip's tree form.
func clipField(clip document.Clip, rest string) (any, bool) {
	data, err := json.Marshal(clip)
	if err != nil {
		return nil, false
	}
	var tree map[string]any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, false
	}
	return merge.LookupPath(tree, rest)
}
