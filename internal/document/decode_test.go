package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_PreservesSymbols(t *testing.T) {
	edit, err := Decode([]byte(validEdit))
	require.NoError(t, err)

	require.Len(t, edit.Timeline.Tracks, 1)
	clips := edit.Timeline.Tracks[0].Clips
	require.Len(t, clips, 2)

	assert.True(t, clips[0].Start.IsAuto())
	length, ok := clips[0].Length.Abs()
	require.True(t, ok)
	assert.Equal(t, 3.0, length)

	assert.True(t, clips[1].Length.IsEnd())
	assert.Equal(t, "{{ TITLE }}", clips[1].Asset.Text, "placeholders survive decoding verbatim")
}

func TestDecode_RoundTrip(t *testing.T) {
	edit, err := Decode([]byte(validEdit))
	require.NoError(t, err)

	out, err := Encode(edit)
	require.NoError(t, err)

	again, err := Decode(out)
	require.NoError(t, err)
	assert.Equal(t, edit, again)

	// Wire-level equality up to key order and whitespace.
	assert.JSONEq(t, validEdit, string(out))
}

func TestDecode_UnknownField(t *testing.T) {
	_, err := Decode([]byte(`{"timeline": {"tracks": []}, "output": {"size": {"width": 1, "height": 1}}, "bogus": 1}`))
	assert.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	yamlDoc := []byte(`
timeline:
  tracks:
    - clips:
        - asset:
            type: video
            src: a.mp4
          start: auto
          length: 2.5
output:
  size:
    width: 1280
    height: 720
  format: mp4
`)
	edit, err := DecodeYAML(yamlDoc)
	require.NoError(t, err)

	clip := edit.Timeline.Tracks[0].Clips[0]
	assert.True(t, clip.Start.IsAuto())
	length, ok := clip.Length.Abs()
	require.True(t, ok)
	assert.Equal(t, 2.5, length)
	assert.Equal(t, "mp4", edit.Output.Format)
}

func TestTree(t *testing.T) {
	edit, err := Decode([]byte(validEdit))
	require.NoError(t, err)

	tree, err := Tree(edit)
	require.NoError(t, err)

	data, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.JSONEq(t, validEdit, string(data))
}
