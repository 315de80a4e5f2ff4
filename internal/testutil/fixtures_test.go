package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarlow/cutline/internal/session"
)

func TestSingleTrackEditLoads(t *testing.T) {
	s := session.New(SessionOptions()...)
	require.NoError(t, s.Load(context.Background(), SingleTrackEdit("intro.mp4", "body.mp4")))
	assert.Equal(t, 8.0, s.Duration())
}

func TestOverlayEditFillsToEnd(t *testing.T) {
	s := session.New(SessionOptions()...)
	require.NoError(t, s.Load(context.Background(), OverlayEdit("intro.mp4", "outro.mp4")))

	overlay := s.GetResolvedEdit().Timeline.Tracks[1].Clips[0]
	length, ok := overlay.Length.Abs()
	require.True(t, ok)
	assert.Equal(t, 5.0, length)
}

func TestClipBuilders(t *testing.T) {
	v := VideoClip("intro.mp4")
	assert.True(t, v.Start.IsAuto())
	assert.True(t, v.Length.IsAuto())

	ti := TitleClip("hi", 1, 2)
	start, _ := ti.Start.Abs()
	assert.Equal(t, 1.0, start)
}
