package timing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAutoStart_FirstClipIsZero(t *testing.T) {
	tracks := [][]Span{{{Start: 0, Length: 2}}}
	assert.Equal(t, 0.0, AutoStart(0, 0, tracks))
}

func TestAutoStart_FollowsPredecessorEnd(t *testing.T) {
	tracks := [][]Span{{
		{Start: 0, Length: 2},
		{Start: 2, Length: 3},
	}}

	assert.Equal(t, 2.0, AutoStart(0, 1, tracks))
	assert.Equal(t, 5.0, AutoStart(0, 2, tracks))
}

func TestAutoStart_NeverLooksAcrossTracks(t *testing.T) {
	tracks := [][]Span{
		{{Start: 0, Length: 10}},
		{{Start: 0, Length: 2}, {Start: 2, Length: 2}},
	}

	// First clip of track 1 resolves to 0 even though track 0 ends at 10.
	assert.Equal(t, 0.0, AutoStart(1, 0, tracks))
	assert.Equal(t, 2.0, AutoStart(1, 1, tracks))
}

func TestAutoStart_OutOfRange(t *testing.T) {
	tracks := [][]Span{{{Start: 0, Length: 2}}}
	assert.Equal(t, 0.0, AutoStart(5, 1, tracks))
	assert.Equal(t, 0.0, AutoStart(0, -1, tracks))
	assert.Equal(t, 0.0, AutoStart(0, 7, tracks))
}

func TestEndLength(t *testing.T) {
	assert.Equal(t, 6.0, EndLength(4, 10))
	assert.Equal(t, 0.0, EndLength(10, 10))
	assert.Equal(t, 0.0, EndLength(12, 10), "start past timeline end floors at zero")
}

func TestTimelineEnd_MaxAcrossTracks(t *testing.T) {
	tracks := [][]Span{
		{{Start: 0, Length: 2}, {Start: 2, Length: 3}},
		{{Start: 1, Length: 8}},
	}
	assert.Equal(t, 9.0, TimelineEnd(tracks))
}

func TestTimelineEnd_ExcludesEndLengthClips(t *testing.T) {
	tracks := [][]Span{
		{{Start: 0, Length: 4}},
		// An end-length clip already stretched to 20 must not feed back
		// into the timeline end it is resolved from.
		{{Start: 0, Length: 20, EndLength: true}},
	}
	assert.Equal(t, 4.0, TimelineEnd(tracks))
}

func TestTimelineEnd_Empty(t *testing.T) {
	assert.Equal(t, 0.0, TimelineEnd(nil))
	assert.Equal(t, 0.0, TimelineEnd([][]Span{{}}))
}
