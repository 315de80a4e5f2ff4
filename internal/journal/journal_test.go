package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/document"
	"github.com/tarlow/cutline/internal/timing"
)

func testEdit() *document.Edit {
	return &document.Edit{
		Timeline: document.Timeline{Tracks: []document.Track{{Clips: []document.Clip{{
			Asset:  &asset.Asset{Type: asset.TypeVideo, Src: "a.mp4"},
			Start:  timing.Seconds(0),
			Length: timing.Seconds(2),
		}}}}},
		Output: document.Output{Size: document.Size{Width: 1024, Height: 576}},
	}
}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_AppendReplayOrder(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Append(ctx, 1, "add_clip", testEdit()))
	require.NoError(t, j.Append(ctx, 2, "update_timing", testEdit()))
	require.NoError(t, j.Append(ctx, 3, "delete_clip", testEdit()))

	records, err := j.Replay(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"add_clip", "update_timing", "delete_clip"},
		[]string{records[0].Name, records[1].Name, records[2].Name})
	assert.Equal(t, int64(1), records[0].Seq)
	assert.Equal(t, int64(3), records[2].Seq)
	assert.Contains(t, string(records[0].Document), `"a.mp4"`)
}

func TestJournal_AppendIsIdempotentPerSeq(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	require.NoError(t, j.Append(ctx, 7, "add_clip", testEdit()))
	require.NoError(t, j.Append(ctx, 7, "add_clip", testEdit()))

	n, err := j.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestJournal_OpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, j1.Append(context.Background(), 1, "add_clip", testEdit()))
	require.NoError(t, j1.Close())

	j2, err := Open(path)
	require.NoError(t, err)
	defer j2.Close()
	n, err := j2.Len(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
