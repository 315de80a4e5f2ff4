package session

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/tarlow/cutline/internal/command"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/event"
)

// LoadEdit hot-reloads the session from raw JSON edit bytes.
//
// When the incoming edit has the same shape as the current one (track and
// clip counts, asset types, merge field names, fonts), it is applied as
// granular per-clip update commands with event batching: undo history is
// preserved and one coalesced EditChanged is emitted. Any structural change
// falls back to a full clear-and-reinitialize, which resets undo history.
func (s *Session) LoadEdit(ctx context.Context, raw []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.doc.Timeline.Tracks) == 0 && s.log.Len() == 0 {
		return s.load(ctx, raw)
	}

	res := document.Validate(raw)
	if !res.Valid {
		return &InvalidEditError{Errors: res.Errors}
	}

	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return fmt.Errorf("session: reload: %w", err)
	}
	registerMergeFields(s.merge, tree)

	resolved, ok := s.merge.ResolveTree(tree).(map[string]any)
	if !ok {
		return fmt.Errorf("session: reload: substituted document is not an object")
	}
	substituted, err := json.Marshal(resolved)
	if err != nil {
		return fmt.Errorf("session: reload: %w", err)
	}
	next, err := document.Decode(substituted)
	if err != nil {
		return err
	}

	if !sameShape(s.doc, next) {
		s.logger.Info("reload: shape changed, reinitializing")
		return s.load(ctx, raw)
	}
	return s.applyGranular(ctx, next)
}

// applyGranular diffs same-shaped documents clip by clip and applies the
// differences as logged update commands.
func (s *Session) applyGranular(ctx context.Context, next *document.Edit) error {
	s.batching = true
	s.suppressed = 0
	defer func() { s.batching = false }()

	changed := 0
	for ti, track := range next.Timeline.Tracks {
		for ci, clip := range track.Clips {
			current, err := s.doc.ClipAt(ti, ci)
			if err != nil {
				return err
			}
			if reflect.DeepEqual(*current, clip) {
				continue
			}
			cmd := &command.UpdateClip{TrackIdx: ti, ClipIdx: ci, Clip: clip}
			if err := s.log.Execute(s.commandContext(ctx), cmd); err != nil {
				return err
			}
			s.journalCommand(ctx, cmd.Name())
			changed++
		}
	}

	if upd := outputDiff(s.doc, next); upd != nil {
		if err := s.log.Execute(s.commandContext(ctx), upd); err != nil {
			return err
		}
		s.journalCommand(ctx, upd.Name())
		changed++
	}

	s.batching = false
	s.logger.Info("reload: granular",
		"commands", changed,
		"coalesced_events", s.suppressed,
	)
	if changed > 0 {
		s.emit(event.EditChanged{})
	}
	return nil
}

// outputDiff returns an UpdateOutput covering the output/background deltas,
// or nil when nothing changed.
func outputDiff(current, next *document.Edit) *command.UpdateOutput {
	upd := &command.UpdateOutput{}
	dirty := false
	if current.Output.Size != next.Output.Size {
		size := next.Output.Size
		upd.Size = &size
		dirty = true
	}
	if current.Output.FPS != next.Output.FPS {
		fps := next.Output.FPS
		upd.FPS = &fps
		dirty = true
	}
	if current.Output.Format != next.Output.Format {
		format := next.Output.Format
		upd.Format = &format
		dirty = true
	}
	if current.Timeline.Background != next.Timeline.Background {
		bg := next.Timeline.Background
		upd.Background = &bg
		dirty = true
	}
	if !dirty {
		return nil
	}
	return upd
}

// sameShape reports whether two documents agree on structure: track and
// clip counts, per-clip asset types, merge field names, and font lists.
// Values (timing, text, styling) are free to differ.
func sameShape(a, b *document.Edit) bool {
	if len(a.Timeline.Tracks) != len(b.Timeline.Tracks) {
		return false
	}
	for i := range a.Timeline.Tracks {
		ac, bc := a.Timeline.Tracks[i].Clips, b.Timeline.Tracks[i].Clips
		if len(ac) != len(bc) {
			return false
		}
		for j := range ac {
			if assetType(ac[j]) != assetType(bc[j]) {
				return false
			}
		}
	}
	if !sameMergeNames(a.Merge, b.Merge) {
		return false
	}
	return reflect.DeepEqual(a.Timeline.Fonts, b.Timeline.Fonts)
}

func assetType(c document.Clip) string {
	if c.Asset == nil {
		return ""
	}
	return string(c.Asset.Type)
}

func sameMergeNames(a, b []document.MergeField) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Find != b[i].Find {
			return false
		}
	}
	return true
}
