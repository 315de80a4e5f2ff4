package document

import (
	"fmt"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/timing"
)

// Edit is the wire/document form of a composition: the single source of
// truth for serialization. It is constructed from a template and mutated
// only via the structural methods below.
type Edit struct {
	Timeline Timeline     `json:"timeline" yaml:"timeline"`
	Output   Output       `json:"output" yaml:"output"`
	Merge    []MergeField `json:"merge,omitempty" yaml:"merge,omitempty"`
}

// Timeline holds the ordered track list. Track order implies z-order:
// later tracks render on top.
type Timeline struct {
	Background string  `json:"background,omitempty" yaml:"background,omitempty"`
	Fonts      []Font  `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	Tracks     []Track `json:"tracks" yaml:"tracks"`
}

// Font declares a font source for title assets.
type Font struct {
	Src string `json:"src" yaml:"src"`
}

// Track is an ordered sequence of clips. Ordering is insertion order and
// implies playback layering within the track.
type Track struct {
	Clips []Clip `json:"clips" yaml:"clips"`
}

// Clip is a single timeline entry. Start and Length keep whatever symbols
// the caller supplied.
type Clip struct {
	Asset      *asset.Asset `json:"asset" yaml:"asset"`
	Start      timing.Value `json:"start" yaml:"start"`
	Length     timing.Value `json:"length" yaml:"length"`
	Position   string       `json:"position,omitempty" yaml:"position,omitempty"`
	Offset     *Offset      `json:"offset,omitempty" yaml:"offset,omitempty"`
	Scale      float64      `json:"scale,omitempty" yaml:"scale,omitempty"`
	Rotation   float64      `json:"rotation,omitempty" yaml:"rotation,omitempty"`
	Opacity    *float64     `json:"opacity,omitempty" yaml:"opacity,omitempty"`
	Fit        string       `json:"fit,omitempty" yaml:"fit,omitempty"`
	Width      float64      `json:"width,omitempty" yaml:"width,omitempty"`
	Height     float64      `json:"height,omitempty" yaml:"height,omitempty"`
	Effect     string       `json:"effect,omitempty" yaml:"effect,omitempty"`
	Transition *Transition  `json:"transition,omitempty" yaml:"transition,omitempty"`
}

// Offset displaces a clip from its anchor position, in fractional frame units.
type Offset struct {
	X float64 `json:"x,omitempty" yaml:"x,omitempty"`
	Y float64 `json:"y,omitempty" yaml:"y,omitempty"`
}

// Transition names the in/out transitions of a clip.
type Transition struct {
	In  string `json:"in,omitempty" yaml:"in,omitempty"`
	Out string `json:"out,omitempty" yaml:"out,omitempty"`
}

// Output holds render settings.
type Output struct {
	Size         Size          `json:"size" yaml:"size"`
	FPS          float64       `json:"fps,omitempty" yaml:"fps,omitempty"`
	Format       string        `json:"format,omitempty" yaml:"format,omitempty"`
	Destinations []Destination `json:"destinations,omitempty" yaml:"destinations,omitempty"`
}

// Size is the output frame size in pixels.
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Destination names a delivery target for the rendered output.
type Destination struct {
	Provider string `json:"provider" yaml:"provider"`
	Exclude  bool   `json:"exclude,omitempty" yaml:"exclude,omitempty"`
}

// MergeField declares a named placeholder and its default value.
// Find is the bare field name ("TITLE"), not the braced template.
type MergeField struct {
	Find    string `json:"find" yaml:"find"`
	Replace any    `json:"replace" yaml:"replace"`
}

// Clone returns a deep copy of the edit. Commands snapshot clips and tracks
// before mutating so that undo can restore them byte for byte.
func (e *Edit) Clone() *Edit {
	if e == nil {
		return nil
	}
	out := &Edit{
		Timeline: Timeline{
			Background: e.Timeline.Background,
		},
		Output: e.Output,
	}
	if e.Timeline.Fonts != nil {
		out.Timeline.Fonts = append([]Font(nil), e.Timeline.Fonts...)
	}
	if e.Timeline.Tracks != nil {
		out.Timeline.Tracks = make([]Track, len(e.Timeline.Tracks))
		for i, tr := range e.Timeline.Tracks {
			out.Timeline.Tracks[i] = tr.Clone()
		}
	}
	if e.Output.Destinations != nil {
		out.Output.Destinations = append([]Destination(nil), e.Output.Destinations...)
	}
	if e.Merge != nil {
		out.Merge = append([]MergeField(nil), e.Merge...)
	}
	return out
}

// Clone returns a deep copy of the track.
func (t Track) Clone() Track {
	out := Track{}
	if t.Clips != nil {
		out.Clips = make([]Clip, len(t.Clips))
		for i, c := range t.Clips {
			out.Clips[i] = c.Clone()
		}
	}
	return out
}

// Clone returns a deep copy of the clip.
func (c Clip) Clone() Clip {
	out := c
	out.Asset = c.Asset.Clone()
	if c.Offset != nil {
		o := *c.Offset
		out.Offset = &o
	}
	if c.Opacity != nil {
		op := *c.Opacity
		out.Opacity = &op
	}
	if c.Transition != nil {
		tr := *c.Transition
		out.Transition = &tr
	}
	return out
}

// AddTrack inserts an empty track at index. Index len(tracks) appends.
func (e *Edit) AddTrack(index int) error {
	if index < 0 || index > len(e.Timeline.Tracks) {
		return fmt.Errorf("document: track index %d out of range [0,%d]", index, len(e.Timeline.Tracks))
	}
	e.Timeline.Tracks = append(e.Timeline.Tracks, Track{})
	copy(e.Timeline.Tracks[index+1:], e.Timeline.Tracks[index:])
	e.Timeline.Tracks[index] = Track{Clips: []Clip{}}
	return nil
}

// RemoveTrack removes the track at index and returns it.
func (e *Edit) RemoveTrack(index int) (Track, error) {
	if index < 0 || index >= len(e.Timeline.Tracks) {
		return Track{}, fmt.Errorf("document: track index %d out of range [0,%d)", index, len(e.Timeline.Tracks))
	}
	removed := e.Timeline.Tracks[index]
	e.Timeline.Tracks = append(e.Timeline.Tracks[:index], e.Timeline.Tracks[index+1:]...)
	return removed, nil
}

// AddClip inserts clip at clipIdx within the track at trackIdx.
// Index len(clips) appends. The clip's symbols are stored verbatim.
func (e *Edit) AddClip(trackIdx int, clip Clip, clipIdx int) error {
	if trackIdx < 0 || trackIdx >= len(e.Timeline.Tracks) {
		return fmt.Errorf("document: track index %d out of range [0,%d)", trackIdx, len(e.Timeline.Tracks))
	}
	track := &e.Timeline.Tracks[trackIdx]
	if clipIdx < 0 || clipIdx > len(track.Clips) {
		return fmt.Errorf("document: clip index %d out of range [0,%d]", clipIdx, len(track.Clips))
	}
	track.Clips = append(track.Clips, Clip{})
	copy(track.Clips[clipIdx+1:], track.Clips[clipIdx:])
	track.Clips[clipIdx] = clip
	return nil
}

// RemoveClip removes and returns the clip at (trackIdx, clipIdx).
func (e *Edit) RemoveClip(trackIdx, clipIdx int) (Clip, error) {
	if trackIdx < 0 || trackIdx >= len(e.Timeline.Tracks) {
		return Clip{}, fmt.Errorf("document: track index %d out of range [0,%d)", trackIdx, len(e.Timeline.Tracks))
	}
	track := &e.Timeline.Tracks[trackIdx]
	if clipIdx < 0 || clipIdx >= len(track.Clips) {
		return Clip{}, fmt.Errorf("document: clip index %d out of range [0,%d)", clipIdx, len(track.Clips))
	}
	removed := track.Clips[clipIdx]
	track.Clips = append(track.Clips[:clipIdx], track.Clips[clipIdx+1:]...)
	return removed, nil
}

// ReplaceClip swaps the clip at (trackIdx, clipIdx) and returns the previous
// clip so callers can snapshot it for undo.
func (e *Edit) ReplaceClip(trackIdx, clipIdx int, clip Clip) (Clip, error) {
	if trackIdx < 0 || trackIdx >= len(e.Timeline.Tracks) {
		return Clip{}, fmt.Errorf("document: track index %d out of range [0,%d)", trackIdx, len(e.Timeline.Tracks))
	}
	track := &e.Timeline.Tracks[trackIdx]
	if clipIdx < 0 || clipIdx >= len(track.Clips) {
		return Clip{}, fmt.Errorf("document: clip index %d out of range [0,%d)", clipIdx, len(track.Clips))
	}
	prev := track.Clips[clipIdx]
	track.Clips[clipIdx] = clip
	return prev, nil
}

// ClipAt returns a pointer to the clip at (trackIdx, clipIdx).
func (e *Edit) ClipAt(trackIdx, clipIdx int) (*Clip, error) {
	if trackIdx < 0 || trackIdx >= len(e.Timeline.Tracks) {
		return nil, fmt.Errorf("document: track index %d out of range [0,%d)", trackIdx, len(e.Timeline.Tracks))
	}
	track := &e.Timeline.Tracks[trackIdx]
	if clipIdx < 0 || clipIdx >= len(track.Clips) {
		return nil, fmt.Errorf("document: clip index %d out of range [0,%d)", clipIdx, len(track.Clips))
	}
	return &track.Clips[clipIdx], nil
}

// SetSize sets the output frame size.
func (e *Edit) SetSize(width, height int) {
	e.Output.Size = Size{Width: width, Height: height}
}

// SetFPS sets the output frame rate.
func (e *Edit) SetFPS(fps float64) {
	e.Output.FPS = fps
}

// SetFormat sets the output container format.
func (e *Edit) SetFormat(format string) {
	e.Output.Format = format
}

// SetBackground sets the timeline background color.
func (e *Edit) SetBackground(color string) {
	e.Timeline.Background = color
}

// ClipCount returns the total number of clips across all tracks.
func (e *Edit) ClipCount() int {
	n := 0
	for _, tr := range e.Timeline.Tracks {
		n += len(tr.Clips)
	}
	return n
}
