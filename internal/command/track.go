package command

import (
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
	"github.com/tarlow/cutline/internal/registry"
)

// AddTrack inserts an empty track at an index.
type AddTrack struct {
	Index int
}

// Name implements Command.
func (a *AddTrack) Name() string { return "add_track" }

// Execute implements Command.
func (a *AddTrack) Execute(ctx *Context) error {
	if err := ctx.Doc.AddTrack(a.Index); err != nil {
		return err
	}
	if _, err := ctx.Reg.InsertTrack(a.Index); err != nil {
		_, _ = ctx.Doc.RemoveTrack(a.Index)
		return err
	}
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// Undo implements Command.
func (a *AddTrack) Undo(ctx *Context) error {
	if _, err := ctx.Doc.RemoveTrack(a.Index); err != nil {
		return err
	}
	if _, err := ctx.Reg.RemoveTrack(a.Index); err != nil {
		return err
	}
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// DeleteTrack removes a whole track, snapshotting it for undo.
type DeleteTrack struct {
	Index int

	prevDoc     document.Track
	prevRuntime *registry.Track
}

// Name implements Command.
func (d *DeleteTrack) Name() string { return "delete_track" }

// Execute implements Command.
func (d *DeleteTrack) Execute(ctx *Context) error {
	docTrack, err := ctx.Doc.RemoveTrack(d.Index)
	if err != nil {
		return err
	}
	runtime, err := ctx.Reg.RemoveTrack(d.Index)
	if err != nil {
		// Keep the layers paired: put the document track back.
		restored := ctx.Doc.Timeline.Tracks
		restored = append(restored, document.Track{})
		copy(restored[d.Index+1:], restored[d.Index:])
		restored[d.Index] = docTrack
		ctx.Doc.Timeline.Tracks = restored
		return err
	}
	d.prevDoc = docTrack.Clone()
	d.prevRuntime = runtime

	// Removing a track can change the timeline end for every end-length
	// clip, so re-resolve everything.
	ctx.Reg.PropagateAll()
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// Undo implements Command.
func (d *DeleteTrack) Undo(ctx *Context) error {
	tracks := ctx.Doc.Timeline.Tracks
	tracks = append(tracks, document.Track{})
	copy(tracks[d.Index+1:], tracks[d.Index:])
	tracks[d.Index] = d.prevDoc.Clone()
	ctx.Doc.Timeline.Tracks = tracks

	if err := ctx.Reg.RestoreTrack(d.Index, d.prevRuntime); err != nil {
		_, _ = ctx.Doc.RemoveTrack(d.Index)
		return err
	}
	ctx.Reg.PropagateAll()
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}
