package command

import (
	"fmt"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
	"github.com/tarlow/cutline/internal/registry"
	"github.com/tarlow/cutline/internal/timing"
)

// emitClipOutcome reports per-clip build outcomes after both layers updated.
func emitClipOutcome(ctx *Context, trackIdx, clipIdx int, clip *registry.Clip, warn error) {
	if clip.Err != nil {
		ctx.Emit(event.ClipError{Track: trackIdx, Clip: clipIdx, ID: clip.ID, Err: clip.Err})
	}
	if warn != nil {
		ctx.Emit(event.ClipWarning{Track: trackIdx, Clip: clipIdx, ID: clip.ID, Err: warn})
	}
}

// AddClip inserts a clip into a track, resolving its timing on the way in.
type AddClip struct {
	TrackIdx int
	ClipIdx  int
	Clip     document.Clip

	// clipID is assigned on first execute and reused on redo so the clip
	// keeps one stable identity across the undo tree.
	clipID string
}

// Name implements Command.
func (a *AddClip) Name() string { return "add_clip" }

// Execute implements Command.
func (a *AddClip) Execute(ctx *Context) error {
	clip, warn, _ := BuildClip(ctx, a.Clip, a.clipID)

	if err := ctx.Doc.AddClip(a.TrackIdx, a.Clip.Clone(), a.ClipIdx); err != nil {
		return err
	}
	if err := ctx.Reg.InsertClip(a.TrackIdx, clip, a.ClipIdx); err != nil {
		// Keep the layers paired: roll the document back.
		_, _ = ctx.Doc.RemoveClip(a.TrackIdx, a.ClipIdx)
		return err
	}
	a.clipID = clip.ID

	ctx.Reg.Propagate(a.TrackIdx, a.ClipIdx)
	emitClipOutcome(ctx, a.TrackIdx, a.ClipIdx, clip, warn)
	ctx.Emit(event.ClipUpdated{Track: a.TrackIdx, Clip: a.ClipIdx, ID: clip.ID})
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// Undo implements Command.
func (a *AddClip) Undo(ctx *Context) error {
	trackIdx, clipIdx, ok := ctx.Reg.Find(a.clipID)
	if !ok {
		return fmt.Errorf("undo add_clip: clip %s not found", a.clipID)
	}
	if _, err := ctx.Doc.RemoveClip(trackIdx, clipIdx); err != nil {
		return err
	}
	if _, err := ctx.Reg.RemoveClip(trackIdx, clipIdx); err != nil {
		return err
	}
	ctx.Reg.Propagate(trackIdx, clipIdx)
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// DeleteClip removes a clip, snapshotting it for undo.
type DeleteClip struct {
	TrackIdx int
	ClipIdx  int

	prevDoc     document.Clip
	prevRuntime *registry.Clip
}

// Name implements Command.
func (d *DeleteClip) Name() string { return "delete_clip" }

// Execute implements Command.
func (d *DeleteClip) Execute(ctx *Context) error {
	docClip, err := ctx.Doc.ClipAt(d.TrackIdx, d.ClipIdx)
	if err != nil {
		return err
	}
	d.prevDoc = docClip.Clone()

	removed, err := ctx.Doc.RemoveClip(d.TrackIdx, d.ClipIdx)
	if err != nil {
		return err
	}
	runtime, err := ctx.Reg.RemoveClip(d.TrackIdx, d.ClipIdx)
	if err != nil {
		// Keep the layers paired: reinsert the document clip.
		_ = ctx.Doc.AddClip(d.TrackIdx, removed, d.ClipIdx)
		return err
	}
	d.prevRuntime = runtime

	ctx.Reg.Propagate(d.TrackIdx, d.ClipIdx)
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// Undo implements Command.
func (d *DeleteClip) Undo(ctx *Context) error {
	if err := ctx.Doc.AddClip(d.TrackIdx, d.prevDoc.Clone(), d.ClipIdx); err != nil {
		return err
	}
	if err := ctx.Reg.InsertClip(d.TrackIdx, d.prevRuntime, d.ClipIdx); err != nil {
		_, _ = ctx.Doc.RemoveClip(d.TrackIdx, d.ClipIdx)
		return err
	}
	ctx.Reg.Propagate(d.TrackIdx, d.ClipIdx)
	ctx.Emit(event.ClipUpdated{Track: d.TrackIdx, Clip: d.ClipIdx, ID: d.prevRuntime.ID})
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// applyClipUpdate swaps the clip at (trackIdx, clipIdx) for next in both
// layers, snapshotting the previous configuration for undo.
func applyClipUpdate(ctx *Context, trackIdx, clipIdx int, next document.Clip, prevDoc *document.Clip, prevRuntime **registry.Clip) error {
	current, err := ctx.Reg.ClipAt(trackIdx, clipIdx)
	if err != nil {
		return err
	}

	clip, warn, _ := BuildClip(ctx, next, current.ID)

	prev, err := ctx.Doc.ReplaceClip(trackIdx, clipIdx, next.Clone())
	if err != nil {
		return err
	}
	prevRT, err := ctx.Reg.ReplaceClip(trackIdx, clipIdx, clip)
	if err != nil {
		_, _ = ctx.Doc.ReplaceClip(trackIdx, clipIdx, prev)
		return err
	}
	*prevDoc = prev
	*prevRuntime = prevRT

	ctx.Reg.Propagate(trackIdx, clipIdx)
	emitClipOutcome(ctx, trackIdx, clipIdx, clip, warn)
	ctx.Emit(event.ClipUpdated{Track: trackIdx, Clip: clipIdx, ID: clip.ID})
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// revertClipUpdate restores the snapshots captured by applyClipUpdate.
func revertClipUpdate(ctx *Context, trackIdx, clipIdx int, prevDoc document.Clip, prevRuntime *registry.Clip) error {
	if _, err := ctx.Doc.ReplaceClip(trackIdx, clipIdx, prevDoc); err != nil {
		return err
	}
	if _, err := ctx.Reg.ReplaceClip(trackIdx, clipIdx, prevRuntime); err != nil {
		return err
	}
	ctx.Reg.Propagate(trackIdx, clipIdx)
	ctx.Emit(event.ClipUpdated{Track: trackIdx, Clip: clipIdx, ID: prevRuntime.ID})
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// UpdateClip replaces a clip's whole document configuration.
type UpdateClip struct {
	TrackIdx int
	ClipIdx  int
	Clip     document.Clip

	prevDoc     document.Clip
	prevRuntime *registry.Clip
}

// Name implements Command.
func (u *UpdateClip) Name() string { return "update_clip" }

// Execute implements Command.
func (u *UpdateClip) Execute(ctx *Context) error {
	return applyClipUpdate(ctx, u.TrackIdx, u.ClipIdx, u.Clip, &u.prevDoc, &u.prevRuntime)
}

// Undo implements Command.
func (u *UpdateClip) Undo(ctx *Context) error {
	return revertClipUpdate(ctx, u.TrackIdx, u.ClipIdx, u.prevDoc, u.prevRuntime)
}

// UpdateTiming sets a clip's start and/or length, symbolic or absolute.
type UpdateTiming struct {
	TrackIdx int
	ClipIdx  int
	Start    *timing.Value
	Length   *timing.Value

	prevDoc     document.Clip
	prevRuntime *registry.Clip
}

// Name implements Command.
func (u *UpdateTiming) Name() string { return "update_timing" }

// Execute implements Command.
func (u *UpdateTiming) Execute(ctx *Context) error {
	docClip, err := ctx.Doc.ClipAt(u.TrackIdx, u.ClipIdx)
	if err != nil {
		return err
	}
	next := docClip.Clone()
	if u.Start != nil {
		if u.Start.IsEnd() {
			return fmt.Errorf("update_timing: \"end\" is not a valid start")
		}
		next.Start = *u.Start
	}
	if u.Length != nil {
		next.Length = *u.Length
	}
	return applyClipUpdate(ctx, u.TrackIdx, u.ClipIdx, next, &u.prevDoc, &u.prevRuntime)
}

// Undo implements Command.
func (u *UpdateTiming) Undo(ctx *Context) error {
	return revertClipUpdate(ctx, u.TrackIdx, u.ClipIdx, u.prevDoc, u.prevRuntime)
}

// SplitClip cuts a clip at an absolute timeline time, producing two
// absolute-timed halves. The second half's trim advances so source-backed
// media resumes where the first half stopped.
type SplitClip struct {
	TrackIdx int
	ClipIdx  int
	At       float64

	prevDoc     document.Clip
	prevRuntime *registry.Clip
	secondID    string
}

// Name implements Command.
func (s *SplitClip) Name() string { return "split_clip" }

// Execute implements Command.
func (s *SplitClip) Execute(ctx *Context) error {
	current, err := ctx.Reg.ClipAt(s.TrackIdx, s.ClipIdx)
	if err != nil {
		return err
	}
	if s.At <= current.Start || s.At >= current.End() {
		return fmt.Errorf("split_clip: time %g outside clip (%g, %g)", s.At, current.Start, current.End())
	}

	docClip, err := ctx.Doc.ClipAt(s.TrackIdx, s.ClipIdx)
	if err != nil {
		return err
	}
	orig := docClip.Clone()
	offset := s.At - current.Start

	first := orig.Clone()
	first.Start = timing.Seconds(current.Start)
	first.Length = timing.Seconds(offset)

	second := orig.Clone()
	second.Start = timing.Seconds(s.At)
	second.Length = timing.Seconds(current.End() - s.At)
	if second.Asset != nil {
		if cap, err := asset.Lookup(second.Asset.Type); err == nil && cap.HasSource {
			second.Asset.Trim += offset
		}
	}

	if err := applyClipUpdate(ctx, s.TrackIdx, s.ClipIdx, first, &s.prevDoc, &s.prevRuntime); err != nil {
		return err
	}
	s.prevDoc = orig

	secondRT, warn, _ := BuildClip(ctx, second, s.secondID)
	if err := ctx.Doc.AddClip(s.TrackIdx, second, s.ClipIdx+1); err != nil {
		return err
	}
	if err := ctx.Reg.InsertClip(s.TrackIdx, secondRT, s.ClipIdx+1); err != nil {
		_, _ = ctx.Doc.RemoveClip(s.TrackIdx, s.ClipIdx+1)
		return err
	}
	s.secondID = secondRT.ID

	ctx.Reg.Propagate(s.TrackIdx, s.ClipIdx)
	emitClipOutcome(ctx, s.TrackIdx, s.ClipIdx+1, secondRT, warn)
	ctx.Emit(event.ClipUpdated{Track: s.TrackIdx, Clip: s.ClipIdx + 1, ID: secondRT.ID})
	ctx.Emit(event.TimelineUpdated{Duration: ctx.Reg.Duration()})
	return nil
}

// Undo implements Command.
func (s *SplitClip) Undo(ctx *Context) error {
	if _, err := ctx.Doc.RemoveClip(s.TrackIdx, s.ClipIdx+1); err != nil {
		return err
	}
	if _, err := ctx.Reg.RemoveClip(s.TrackIdx, s.ClipIdx+1); err != nil {
		return err
	}
	return revertClipUpdate(ctx, s.TrackIdx, s.ClipIdx, s.prevDoc, s.prevRuntime)
}
