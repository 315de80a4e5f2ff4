package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/timing"
)

const textPath = "timeline.tracks[0].clips[0].asset.text"

func newMergeContext(t *testing.T) *Context {
	t.Helper()
	ctx, _ := newTestContext(t)
	require.NoError(t, (&AddClip{TrackIdx: 0, ClipIdx: 0, Clip: document.Clip{
		Asset:  &asset.Asset{Type: asset.TypeTitle, Text: "Hello World"},
		Start:  timing.Seconds(0),
		Length: timing.Seconds(5),
	}}).Execute(ctx))
	return ctx
}

func TestApplyMergeField_ExecuteUndo(t *testing.T) {
	ctx := newMergeContext(t)

	apply := &ApplyMergeField{Path: textPath, Field: "HEADLINE", Value: "Breaking News"}
	require.NoError(t, apply.Execute(ctx))

	docClip, err := ctx.Doc.ClipAt(0, 0)
	require.NoError(t, err)
	assert.Equal(t, "Breaking News", docClip.Asset.Text, "document keeps the resolved value")

	v, ok := ctx.Merge.Lookup("HEADLINE")
	require.True(t, ok)
	assert.Equal(t, "Breaking News", v)

	b, ok := ctx.Bindings.ByPath(textPath)
	require.True(t, ok)
	assert.Equal(t, "{{ HEADLINE }}", b.Placeholder)

	require.Len(t, ctx.Doc.Merge, 1)
	assert.Equal(t, "HEADLINE", ctx.Doc.Merge[0].Find)

	require.NoError(t, apply.Undo(ctx))
	docClip, _ = ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "Hello World", docClip.Asset.Text)
	_, ok = ctx.Merge.Lookup("HEADLINE")
	assert.False(t, ok, "field the apply introduced is gone after undo")
	_, ok = ctx.Bindings.ByPath(textPath)
	assert.False(t, ok)
	assert.Empty(t, ctx.Doc.Merge)
}

func TestApplyMergeField_IdempotentValue(t *testing.T) {
	ctx := newMergeContext(t)

	first := &ApplyMergeField{Path: textPath, Field: "HEADLINE", Value: "One"}
	require.NoError(t, first.Execute(ctx))
	second := &ApplyMergeField{Path: textPath, Field: "HEADLINE", Value: "Two"}
	require.NoError(t, second.Execute(ctx))

	docClip, _ := ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "Two", docClip.Asset.Text)
	v, _ := ctx.Merge.Lookup("HEADLINE")
	assert.Equal(t, "Two", v)
	require.Len(t, ctx.Doc.Merge, 1, "re-applying the same field upserts, never duplicates")

	require.NoError(t, second.Undo(ctx))
	docClip, _ = ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "One", docClip.Asset.Text)
	v, ok := ctx.Merge.Lookup("HEADLINE")
	require.True(t, ok, "undoing the second apply keeps the first one's field")
	assert.Equal(t, "One", v)
}

func TestApplyMergeField_BadPath(t *testing.T) {
	ctx := newMergeContext(t)

	err := (&ApplyMergeField{Path: "output.size.width", Field: "W", Value: 640}).Execute(ctx)
	assert.Error(t, err, "only clip properties are bindable")
	err = (&ApplyMergeField{Path: "timeline.tracks[0].clips[0]", Field: "X", Value: 1}).Execute(ctx)
	assert.Error(t, err, "a path must address a property, not the clip itself")
}

func TestRemoveMergeField_ExecuteUndo(t *testing.T) {
	ctx := newMergeContext(t)
	require.NoError(t, (&ApplyMergeField{Path: textPath, Field: "HEADLINE", Value: "Bound"}).Execute(ctx))

	rm := &RemoveMergeField{Path: textPath, Original: "Plain Again"}
	require.NoError(t, rm.Execute(ctx))

	docClip, _ := ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "Plain Again", docClip.Asset.Text)
	_, ok := ctx.Bindings.ByPath(textPath)
	assert.False(t, ok, "binding is gone")
	_, ok = ctx.Merge.Lookup("HEADLINE")
	assert.True(t, ok, "the field itself stays registered")

	require.NoError(t, rm.Undo(ctx))
	docClip, _ = ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "Bound", docClip.Asset.Text)
	b, ok := ctx.Bindings.ByPath(textPath)
	require.True(t, ok)
	assert.Equal(t, "{{ HEADLINE }}", b.Placeholder)
}

func TestDeleteMergeFieldGlobally(t *testing.T) {
	ctx := newMergeContext(t)
	require.NoError(t, (&ApplyMergeField{Path: textPath, Field: "HEADLINE", Value: "Kept Text"}).Execute(ctx))

	del := &DeleteMergeFieldGlobally{Field: "HEADLINE"}
	require.NoError(t, del.Execute(ctx))

	_, ok := ctx.Merge.Lookup("HEADLINE")
	assert.False(t, ok)
	assert.Zero(t, ctx.Bindings.Len())
	assert.Empty(t, ctx.Doc.Merge)
	docClip, _ := ctx.Doc.ClipAt(0, 0)
	assert.Equal(t, "Kept Text", docClip.Asset.Text, "resolved values survive the field's deletion")

	require.NoError(t, del.Undo(ctx))
	v, ok := ctx.Merge.Lookup("HEADLINE")
	require.True(t, ok)
	assert.Equal(t, "Kept Text", v)
	assert.Equal(t, 1, ctx.Bindings.Len())
	require.Len(t, ctx.Doc.Merge, 1)
}

func TestDeleteMergeFieldGlobally_UnknownField(t *testing.T) {
	ctx := newMergeContext(t)
	assert.Error(t, (&DeleteMergeFieldGlobally{Field: "NOPE"}).Execute(ctx))
}

func TestClipPosition(t *testing.T) {
	tr, cl, rest, ok := ClipPosition("timeline.tracks[2].clips[7].asset.src")
	require.True(t, ok)
	assert.Equal(t, 2, tr)
	assert.Equal(t, 7, cl)
	assert.Equal(t, "asset.src", rest)

	_, _, rest, ok = ClipPosition("timeline.tracks[0].clips[0]")
	require.True(t, ok)
	assert.Empty(t, rest)

	_, _, _, ok = ClipPosition("output.format")
	assert.False(t, ok)
}

func TestSetClipField_NestedPath(t *testing.T) {
	clip := document.Clip{
		Asset:  &asset.Asset{Type: asset.TypeTitle, Text: "old"},
		Start:  timing.Seconds(0),
		Length: timing.Seconds(1),
	}
	updated, err := setClipField(clip, "asset.text", "new")
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Asset.Text)
	assert.Equal(t, "old", clip.Asset.Text, "input clip is not mutated")

	_, err = setClipField(clip, "asset.font.size", 24)
	assert.Error(t, err, "missing intermediate segment fails the write")

	got, ok := clipField(updated, "asset.text")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}
