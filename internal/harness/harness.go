package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/registry"
	"github.com/tarlow/cutline/internal/session"
)

// timingTolerance absorbs float drift when comparing resolved seconds.
const timingTolerance = 1e-9

// Run executes a scenario and returns the final session after all steps
// and expectation checks passed.
func Run(sc *Scenario) (*session.Session, error) {
	s := session.New(
		session.WithProber(asset.NewStaticProber(sc.Durations)),
		session.WithIDGenerator(registry.NewSequentialGenerator("clip")),
	)
	ctx := context.Background()

	raw, err := json.Marshal(sc.Edit)
	if err != nil {
		return nil, fmt.Errorf("harness: %s: encode edit: %w", sc.Name, err)
	}
	if err := s.Load(ctx, raw); err != nil {
		return nil, fmt.Errorf("harness: %s: load: %w", sc.Name, err)
	}

	for i, step := range sc.Steps {
		if err := apply(ctx, s, step); err != nil {
			return nil, fmt.Errorf("harness: %s: step %d (%s): %w", sc.Name, i, step.Op, err)
		}
	}

	if err := check(s, sc.Expect); err != nil {
		return nil, fmt.Errorf("harness: %s: %w", sc.Name, err)
	}
	return s, nil
}

func apply(ctx context.Context, s *session.Session, step Step) error {
	switch step.Op {
	case "add_clip":
		clip, err := decodeClip(step.Spec)
		if err != nil {
			return err
		}
		return s.AddClip(ctx, step.Track, step.Clip, clip)
	case "delete_clip":
		return s.DeleteClip(ctx, step.Track, step.Clip)
	case "update_clip":
		clip, err := decodeClip(step.Spec)
		if err != nil {
			return err
		}
		return s.UpdateClip(ctx, step.Track, step.Clip, clip)
	case "update_timing":
		return s.UpdateClipTiming(ctx, step.Track, step.Clip, step.Start, step.Length)
	case "split_clip":
		return s.SplitClip(ctx, step.Track, step.Clip, step.At)
	case "add_track":
		return s.AddTrack(ctx, step.Track)
	case "delete_track":
		return s.DeleteTrack(ctx, step.Track)
	case "undo":
		return s.Undo(ctx)
	case "redo":
		return s.Redo(ctx)
	case "apply_merge_field":
		return s.ApplyMergeField(ctx, step.Path, step.Field, step.Value)
	case "remove_merge_field":
		return s.RemoveMergeField(ctx, step.Path, step.Value)
	case "delete_merge_field":
		return s.DeleteMergeFieldGlobally(ctx, step.Field)
	case "reload":
		raw, err := json.Marshal(step.Edit)
		if err != nil {
			return fmt.Errorf("encode reload edit: %w", err)
		}
		return s.LoadEdit(ctx, raw)
	default:
		return fmt.Errorf("unknown op %q", step.Op)
	}
}

func decodeClip(spec map[string]any) (document.Clip, error) {
	data, err := json.Marshal(spec)
	if err != nil {
		return document.Clip{}, fmt.Errorf("encode clip spec: %w", err)
	}
	var clip document.Clip
	if err := json.Unmarshal(data, &clip); err != nil {
		return document.Clip{}, fmt.Errorf("decode clip spec: %w", err)
	}
	return clip, nil
}

func check(s *session.Session, expect Expect) error {
	if expect.Duration != nil {
		if got := s.Duration(); math.Abs(got-*expect.Duration) > timingTolerance {
			return fmt.Errorf("duration: got %g, want %g", got, *expect.Duration)
		}
	}

	if len(expect.Spans) > 0 {
		resolved := s.GetResolvedEdit()
		for _, want := range expect.Spans {
			if want.Track >= len(resolved.Timeline.Tracks) {
				return fmt.Errorf("span [%d][%d]: track out of range", want.Track, want.Clip)
			}
			clips := resolved.Timeline.Tracks[want.Track].Clips
			if want.Clip >= len(clips) {
				return fmt.Errorf("span [%d][%d]: clip out of range", want.Track, want.Clip)
			}
			start, _ := clips[want.Clip].Start.Abs()
			length, _ := clips[want.Clip].Length.Abs()
			if math.Abs(start-want.Start) > timingTolerance || math.Abs(length-want.Length) > timingTolerance {
				return fmt.Errorf("span [%d][%d]: got (%g, %g), want (%g, %g)",
					want.Track, want.Clip, start, length, want.Start, want.Length)
			}
		}
	}

	if len(expect.Fields) > 0 {
		fields := s.Fields()
		if len(fields) != len(expect.Fields) {
			return fmt.Errorf("fields: got %d, want %d", len(fields), len(expect.Fields))
		}
		for i, want := range expect.Fields {
			if fields[i].Name != want {
				return fmt.Errorf("fields[%d]: got %q, want %q", i, fields[i].Name, want)
			}
		}
	}
	return nil
}
