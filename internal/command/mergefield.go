package command

import (
	"fmt"

	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
	"github.com/tarlow/cutline/internal/merge"
	"github.com/tarlow/cutline/internal/registry"
)

// ApplyMergeField binds a clip property to a merge field: the field is
// registered (silently, since this command emits its own events), the
// document keeps the resolved value, and a binding records the placeholder
// so template export can regenerate it.
type ApplyMergeField struct {
	// Path addresses the property, e.g. "timeline.tracks[0].clips[1].asset.text".
	Path  string
	Field string
	Value any

	prevDoc     document.Clip
	prevRuntime *registry.Clip
	prevBinding *merge.Binding
	hadField    bool
	prevValue   any
	hadEntry    bool
	prevEntry   document.MergeField
}

// Name implements Command.
func (a *ApplyMergeField) Name() string { return "apply_merge_field" }

// Execute implements Command.
func (a *ApplyMergeField) Execute(ctx *Context) error {
	trackIdx, clipIdx, rest, ok := ClipPosition(a.Path)
	if !ok || rest == "" {
		return fmt.Errorf("apply_merge_field: path %q does not address a clip property", a.Path)
	}
	docClip, err := ctx.Doc.ClipAt(trackIdx, clipIdx)
	if err != nil {
		return err
	}
	next, err := setClipField(docClip.Clone(), rest, a.Value)
	if err != nil {
		return err
	}

	// Snapshot the merge state before touching any layer.
	if b, ok := ctx.Bindings.ByPath(a.Path); ok {
		prev := b
		a.prevBinding = &prev
	} else {
		a.prevBinding = nil
	}
	a.prevValue, a.hadField = ctx.Merge.Lookup(a.Field)
	a.hadEntry, a.prevEntry = findMergeEntry(ctx.Doc, a.Field)

	if err := applyClipUpdate(ctx, trackIdx, clipIdx, next, &a.prevDoc, &a.prevRuntime); err != nil {
		return err
	}

	ctx.Merge.Register(a.Field, a.Value, merge.RegisterOptions{Silent: true})
	ctx.Bindings.Put(merge.Binding{
		ClipID:      a.prevRuntime.ID,
		Path:        a.Path,
		Placeholder: merge.Template(a.Field),
		Resolved:    a.Value,
	})
	upsertMergeEntry(ctx.Doc, a.Field, a.Value)

	ctx.Emit(event.MergeFieldChanged{Name: a.Field})
	return nil
}

// Undo implements Command.
func (a *ApplyMergeField) Undo(ctx *Context) error {
	trackIdx, clipIdx, _, _ := ClipPosition(a.Path)
	if err := revertClipUpdate(ctx, trackIdx, clipIdx, a.prevDoc, a.prevRuntime); err != nil {
		return err
	}

	if a.prevBinding != nil {
		ctx.Bindings.Put(*a.prevBinding)
	} else {
		ctx.Bindings.Remove(a.Path)
	}
	if a.hadField {
		ctx.Merge.Register(a.Field, a.prevValue, merge.RegisterOptions{Silent: true})
	} else {
		ctx.Merge.Unregister(a.Field)
	}
	if a.hadEntry {
		upsertMergeEntry(ctx.Doc, a.prevEntry.Find, a.prevEntry.Replace)
	} else {
		removeMergeEntry(ctx.Doc, a.Field)
	}

	ctx.Emit(event.MergeFieldChanged{Name: a.Field})
	return nil
}

// RemoveMergeField breaks the binding at a path, restoring the property to
// an explicit value. The field itself stays registered; other bindings may
// still use it.
type RemoveMergeField struct {
	Path string
	// Original is the explicit value the property returns to.
	Original any

	prevDoc     document.Clip
	prevRuntime *registry.Clip
	prevBinding *merge.Binding
}

// Name implements Command.
func (r *RemoveMergeField) Name() string { return "remove_merge_field" }

// Execute implements Command.
func (r *RemoveMergeField) Execute(ctx *Context) error {
	trackIdx, clipIdx, rest, ok := ClipPosition(r.Path)
	if !ok || rest == "" {
		return fmt.Errorf("remove_merge_field: path %q does not address a clip property", r.Path)
	}
	docClip, err := ctx.Doc.ClipAt(trackIdx, clipIdx)
	if err != nil {
		return err
	}
	next, err := setClipField(docClip.Clone(), rest, r.Original)
	if err != nil {
		return err
	}

	if b, ok := ctx.Bindings.ByPath(r.Path); ok {
		prev := b
		r.prevBinding = &prev
	} else {
		r.prevBinding = nil
	}

	if err := applyClipUpdate(ctx, trackIdx, clipIdx, next, &r.prevDoc, &r.prevRuntime); err != nil {
		return err
	}
	ctx.Bindings.Remove(r.Path)
	return nil
}

// Undo implements Command.
func (r *RemoveMergeField) Undo(ctx *Context) error {
	trackIdx, clipIdx, _, _ := ClipPosition(r.Path)
	if err := revertClipUpdate(ctx, trackIdx, clipIdx, r.prevDoc, r.prevRuntime); err != nil {
		return err
	}
	if r.prevBinding != nil {
		ctx.Bindings.Put(*r.prevBinding)
	}
	return nil
}

// DeleteMergeFieldGlobally unregisters a field and drops every binding that
// uses it. Bound properties keep their already-resolved values; only the
// symbolic placeholders disappear from the exported template.
type DeleteMergeFieldGlobally struct {
	Field string

	removed   []merge.Binding
	hadField  bool
	prevValue any
	hadEntry  bool
	prevEntry document.MergeField
}

// Name implements Command.
func (d *DeleteMergeFieldGlobally) Name() string { return "delete_merge_field_globally" }

// Execute implements Command.
func (d *DeleteMergeFieldGlobally) Execute(ctx *Context) error {
	d.prevValue, d.hadField = ctx.Merge.Lookup(d.Field)
	if !d.hadField {
		return fmt.Errorf("delete_merge_field_globally: unknown field %q", d.Field)
	}
	d.hadEntry, d.prevEntry = findMergeEntry(ctx.Doc, d.Field)

	d.removed = ctx.Bindings.RemoveField(d.Field)
	ctx.Merge.Unregister(d.Field)
	removeMergeEntry(ctx.Doc, d.Field)

	ctx.Emit(event.MergeFieldChanged{Name: d.Field})
	return nil
}

// Undo implements Command.
func (d *DeleteMergeFieldGlobally) Undo(ctx *Context) error {
	ctx.Merge.Register(d.Field, d.prevValue, merge.RegisterOptions{Silent: true})
	for _, b := range d.removed {
		ctx.Bindings.Put(b)
	}
	if d.hadEntry {
		upsertMergeEntry(ctx.Doc, d.prevEntry.Find, d.prevEntry.Replace)
	}
	ctx.Emit(event.MergeFieldChanged{Name: d.Field})
	return nil
}

func findMergeEntry(doc *document.Edit, field string) (bool, document.MergeField) {
	for _, m := range doc.Merge {
		if m.Find == field {
			return true, m
		}
	}
	return false, document.MergeField{}
}

func upsertMergeEntry(doc *document.Edit, field string, value any) {
	for i, m := range doc.Merge {
		if m.Find == field {
			doc.Merge[i].Replace = value
			return
		}
	}
	doc.Merge = append(doc.Merge, document.MergeField{Find: field, Replace: value})
}

func removeMergeEntry(doc *document.Edit, field string) {
	for i, m := range doc.Merge {
		if m.Find == field {
			doc.Merge = append(doc.Merge[:i], doc.Merge[i+1:]...)
			return
		}
	}
}
