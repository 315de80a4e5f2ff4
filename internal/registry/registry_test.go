package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/timing"
)

func newTestRegistry() *Registry {
	return New(NewSequentialGenerator("id"))
}

func autoClip(r *Registry, length float64) *Clip {
	return &Clip{
		ID: r.NewID(),
		Document: document.Clip{
			Asset:  &asset.Asset{Type: asset.TypeVideo, Src: "a.mp4"},
			Start:  timing.Auto(),
			Length: timing.Seconds(length),
		},
		Length:    length,
		AutoStart: true,
	}
}

func absClip(r *Registry, start, length float64) *Clip {
	return &Clip{
		ID: r.NewID(),
		Document: document.Clip{
			Asset:  &asset.Asset{Type: asset.TypeVideo, Src: "b.mp4"},
			Start:  timing.Seconds(start),
			Length: timing.Seconds(length),
		},
		Start:  start,
		Length: length,
	}
}

func endClip(r *Registry, start float64) *Clip {
	return &Clip{
		ID: r.NewID(),
		Document: document.Clip{
			Asset:  &asset.Asset{Type: asset.TypeVideo, Src: "c.mp4"},
			Start:  timing.Seconds(start),
			Length: timing.End(),
		},
		Start:     start,
		EndLength: true,
	}
}

func TestRegistry_InsertAndFind(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)

	c1 := autoClip(r, 2)
	c2 := autoClip(r, 3)
	require.NoError(t, r.InsertClip(0, c1, 0))
	require.NoError(t, r.InsertClip(0, c2, 1))

	ti, ci, ok := r.Find(c2.ID)
	require.True(t, ok)
	assert.Equal(t, 0, ti)
	assert.Equal(t, 1, ci)

	got, err := r.ClipAt(0, 0)
	require.NoError(t, err)
	assert.Same(t, c1, got)
}

func TestRegistry_FindTracksStructuralChanges(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)

	c1 := autoClip(r, 2)
	c2 := autoClip(r, 3)
	require.NoError(t, r.InsertClip(0, c1, 0))
	require.NoError(t, r.InsertClip(0, c2, 1))

	_, err = r.RemoveClip(0, 0)
	require.NoError(t, err)

	_, _, ok := r.Find(c1.ID)
	assert.False(t, ok, "removed clip leaves the index")

	_, ci, ok := r.Find(c2.ID)
	require.True(t, ok)
	assert.Equal(t, 0, ci, "surviving clip's position is re-derived")
}

func TestRegistry_InsertClip_Bounds(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)

	assert.Error(t, r.InsertClip(2, autoClip(r, 1), 0))
	assert.Error(t, r.InsertClip(0, autoClip(r, 1), 5))
}

func TestRegistry_RemoveTrack(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)
	_, err = r.InsertTrack(1)
	require.NoError(t, err)
	c := autoClip(r, 2)
	require.NoError(t, r.InsertClip(1, c, 0))

	removed, err := r.RemoveTrack(1)
	require.NoError(t, err)
	assert.Len(t, removed.Clips, 1)
	assert.Equal(t, 1, r.TrackCount())

	_, _, ok := r.Find(c.ID)
	assert.False(t, ok)

	// Undo path: restore keeps the clip IDs.
	require.NoError(t, r.RestoreTrack(1, removed))
	_, _, ok = r.Find(c.ID)
	assert.True(t, ok)
}

func TestPropagate_AutoStartChain(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)
	require.NoError(t, r.InsertClip(0, autoClip(r, 2), 0))
	require.NoError(t, r.InsertClip(0, autoClip(r, 3), 1))
	r.Propagate(0, 0)

	c0, _ := r.ClipAt(0, 0)
	c1, _ := r.ClipAt(0, 1)
	assert.Equal(t, 0.0, c0.Start)
	assert.Equal(t, 2.0, c1.Start)
	assert.Equal(t, 5.0, r.Duration())

	// Inserting a length-1 clip at index 0 shifts the chain to [1, 3].
	require.NoError(t, r.InsertClip(0, autoClip(r, 1), 0))
	r.Propagate(0, 0)

	c0, _ = r.ClipAt(0, 0)
	c1, _ = r.ClipAt(0, 1)
	c2, _ := r.ClipAt(0, 2)
	assert.Equal(t, 0.0, c0.Start)
	assert.Equal(t, 1.0, c1.Start)
	assert.Equal(t, 3.0, c2.Start)
	assert.Equal(t, 6.0, r.Duration())
}

func TestPropagate_FirstClipRecomputesAfterRemoval(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)
	require.NoError(t, r.InsertClip(0, autoClip(r, 2), 0))
	require.NoError(t, r.InsertClip(0, autoClip(r, 3), 1))
	r.Propagate(0, 0)

	_, err = r.RemoveClip(0, 0)
	require.NoError(t, err)
	r.Propagate(0, 0)

	c0, _ := r.ClipAt(0, 0)
	assert.Equal(t, 0.0, c0.Start, "orphaned auto clip snaps back to 0")
}

func TestPropagate_EndLengthFollowsTimelineEnd(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)
	_, err = r.InsertTrack(1)
	require.NoError(t, err)

	require.NoError(t, r.InsertClip(0, absClip(r, 0, 10), 0))
	require.NoError(t, r.InsertClip(1, endClip(r, 4), 0))
	r.PropagateAll()

	stretch, _ := r.ClipAt(1, 0)
	assert.Equal(t, 6.0, stretch.Length)

	// Extending the other track to 12 updates the end-length clip without
	// any explicit action against it.
	require.NoError(t, r.InsertClip(0, absClip(r, 10, 2), 1))
	r.Propagate(0, 1)
	assert.Equal(t, 8.0, stretch.Length)
	assert.Equal(t, 12.0, r.Duration())
}

func TestPropagate_AutoStartDoesNotCrossTracks(t *testing.T) {
	r := newTestRegistry()
	_, err := r.InsertTrack(0)
	require.NoError(t, err)
	_, err = r.InsertTrack(1)
	require.NoError(t, err)
	require.NoError(t, r.InsertClip(0, absClip(r, 0, 10), 0))
	require.NoError(t, r.InsertClip(1, autoClip(r, 2), 0))

	r.PropagateAll()

	c, _ := r.ClipAt(1, 0)
	assert.Equal(t, 0.0, c.Start)
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", g.Generate())
	assert.Equal(t, "b", g.Generate())
	assert.Equal(t, "fixed-3", g.Generate())
}

func TestUUIDv7Generator_Unique(t *testing.T) {
	g := UUIDv7Generator{}
	assert.NotEqual(t, g.Generate(), g.Generate())
}
