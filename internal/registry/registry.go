package registry

import (
	"fmt"

	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/timing"
)

// Clip is the resolved runtime form of a document clip.
//
// Start and Length are always concrete, non-negative seconds; End() is
// their sum. The symbolic flags record how the timings were authored so
// propagation knows what to re-resolve.
type Clip struct {
	// ID is the stable generated identifier, assigned at creation and
	// preserved across moves and timing updates.
	ID string

	// Document is the substituted document clip this runtime clip was
	// built from. Symbols remain in Start/Length of the document form;
	// the resolved numbers live on the runtime clip.
	Document document.Clip

	// Start and Length are the resolved timings in seconds.
	Start  float64
	Length float64

	// AutoStart marks a clip whose document start is "auto".
	AutoStart bool
	// AutoLength marks a clip whose document length is "auto".
	AutoLength bool
	// EndLength marks a clip whose document length is "end".
	EndLength bool

	// Err records a per-clip load failure (probe or construction).
	// A clip with a non-nil Err still occupies its slot so document and
	// registry cardinality stay mirrored.
	Err error
}

// End returns the resolved end of the clip.
func (c *Clip) End() float64 {
	return c.Start + c.Length
}

// Span projects the clip for the pure timing resolvers.
func (c *Clip) Span() timing.Span {
	return timing.Span{Start: c.Start, Length: c.Length, EndLength: c.EndLength}
}

// Clone returns a deep copy of the runtime clip.
func (c *Clip) Clone() *Clip {
	if c == nil {
		return nil
	}
	out := *c
	out.Document = c.Document.Clone()
	return &out
}

// Track is an ordered sequence of runtime clips.
type Track struct {
	ID    string
	Clips []*Clip
}

// Registry is the in-memory resolved mirror of the document timeline.
type Registry struct {
	tracks   []*Track
	index    map[string][2]int
	duration float64
	gen      IDGenerator
}

// New creates an empty registry using gen for stable IDs.
func New(gen IDGenerator) *Registry {
	return &Registry{
		index: make(map[string][2]int),
		gen:   gen,
	}
}

// NewID mints a fresh stable identifier.
func (r *Registry) NewID() string {
	return r.gen.Generate()
}

// Tracks returns the live track slice. Read-only for callers outside the
// command path.
func (r *Registry) Tracks() []*Track { return r.tracks }

// TrackCount returns the number of tracks.
func (r *Registry) TrackCount() int { return len(r.tracks) }

// ClipCount returns the total number of clips.
func (r *Registry) ClipCount() int {
	n := 0
	for _, tr := range r.tracks {
		n += len(tr.Clips)
	}
	return n
}

// Duration returns the total resolved duration, maintained by Propagate.
func (r *Registry) Duration() float64 { return r.duration }

// ClipAt returns the clip at a position.
func (r *Registry) ClipAt(trackIdx, clipIdx int) (*Clip, error) {
	if trackIdx < 0 || trackIdx >= len(r.tracks) {
		return nil, fmt.Errorf("registry: track index %d out of range [0,%d)", trackIdx, len(r.tracks))
	}
	tr := r.tracks[trackIdx]
	if clipIdx < 0 || clipIdx >= len(tr.Clips) {
		return nil, fmt.Errorf("registry: clip index %d out of range [0,%d)", clipIdx, len(tr.Clips))
	}
	return tr.Clips[clipIdx], nil
}

// Find returns the current position of a clip by stable ID.
func (r *Registry) Find(id string) (trackIdx, clipIdx int, ok bool) {
	pos, ok := r.index[id]
	if !ok {
		return 0, 0, false
	}
	return pos[0], pos[1], true
}

// InsertTrack inserts an empty track at index.
func (r *Registry) InsertTrack(index int) (*Track, error) {
	if index < 0 || index > len(r.tracks) {
		return nil, fmt.Errorf("registry: track index %d out of range [0,%d]", index, len(r.tracks))
	}
	tr := &Track{ID: r.gen.Generate()}
	r.tracks = append(r.tracks, nil)
	copy(r.tracks[index+1:], r.tracks[index:])
	r.tracks[index] = tr
	r.reindex()
	return tr, nil
}

// RestoreTrack reinserts a previously removed track (undo path), keeping
// its ID and clips.
func (r *Registry) RestoreTrack(index int, tr *Track) error {
	if index < 0 || index > len(r.tracks) {
		return fmt.Errorf("registry: track index %d out of range [0,%d]", index, len(r.tracks))
	}
	r.tracks = append(r.tracks, nil)
	copy(r.tracks[index+1:], r.tracks[index:])
	r.tracks[index] = tr
	r.reindex()
	return nil
}

// RemoveTrack removes and returns the track at index.
func (r *Registry) RemoveTrack(index int) (*Track, error) {
	if index < 0 || index >= len(r.tracks) {
		return nil, fmt.Errorf("registry: track index %d out of range [0,%d)", index, len(r.tracks))
	}
	removed := r.tracks[index]
	r.tracks = append(r.tracks[:index], r.tracks[index+1:]...)
	r.reindex()
	return removed, nil
}

// InsertClip inserts a runtime clip at (trackIdx, clipIdx).
func (r *Registry) InsertClip(trackIdx int, clip *Clip, clipIdx int) error {
	if trackIdx < 0 || trackIdx >= len(r.tracks) {
		return fmt.Errorf("registry: track index %d out of range [0,%d)", trackIdx, len(r.tracks))
	}
	tr := r.tracks[trackIdx]
	if clipIdx < 0 || clipIdx > len(tr.Clips) {
		return fmt.Errorf("registry: clip index %d out of range [0,%d]", clipIdx, len(tr.Clips))
	}
	tr.Clips = append(tr.Clips, nil)
	copy(tr.Clips[clipIdx+1:], tr.Clips[clipIdx:])
	tr.Clips[clipIdx] = clip
	r.reindex()
	return nil
}

// RemoveClip removes and returns the clip at (trackIdx, clipIdx).
func (r *Registry) RemoveClip(trackIdx, clipIdx int) (*Clip, error) {
	if trackIdx < 0 || trackIdx >= len(r.tracks) {
		return nil, fmt.Errorf("registry: track index %d out of range [0,%d)", trackIdx, len(r.tracks))
	}
	tr := r.tracks[trackIdx]
	if clipIdx < 0 || clipIdx >= len(tr.Clips) {
		return nil, fmt.Errorf("registry: clip index %d out of range [0,%d)", clipIdx, len(tr.Clips))
	}
	removed := tr.Clips[clipIdx]
	tr.Clips = append(tr.Clips[:clipIdx], tr.Clips[clipIdx+1:]...)
	r.reindex()
	return removed, nil
}

// ReplaceClip swaps the clip at a position, preserving nothing; the caller
// decides whether to carry the old ID over.
func (r *Registry) ReplaceClip(trackIdx, clipIdx int, clip *Clip) (*Clip, error) {
	prev, err := r.ClipAt(trackIdx, clipIdx)
	if err != nil {
		return nil, err
	}
	r.tracks[trackIdx].Clips[clipIdx] = clip
	r.reindex()
	return prev, nil
}

// Clear drops all tracks and clips.
func (r *Registry) Clear() {
	r.tracks = nil
	r.index = make(map[string][2]int)
	r.duration = 0
}

// Spans projects the whole registry for the pure timing resolvers.
func (r *Registry) Spans() [][]timing.Span {
	out := make([][]timing.Span, len(r.tracks))
	for i, tr := range r.tracks {
		spans := make([]timing.Span, len(tr.Clips))
		for j, c := range tr.Clips {
			spans[j] = c.Span()
		}
		out[i] = spans
	}
	return out
}

func (r *Registry) reindex() {
	r.index = make(map[string][2]int, len(r.index))
	for t, tr := range r.tracks {
		for c, clip := range tr.Clips {
			r.index[clip.ID] = [2]int{t, c}
		}
	}
}
