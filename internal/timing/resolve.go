package timing

// Span is the minimal resolved view of a clip that the resolvers operate on.
// The registry projects its runtime clips into spans before resolving.
type Span struct {
	// Start is the resolved start in seconds.
	Start float64
	// Length is the resolved length in seconds.
	Length float64
	// EndLength marks a clip whose symbolic length is "end". Such clips are
	// excluded from TimelineEnd to avoid a circular dependency.
	EndLength bool
}

// End returns the resolved end of the span.
func (s Span) End() float64 {
	return s.Start + s.Length
}

// AutoStart resolves an "auto" start: the end time of the immediately
// preceding clip in the same track, or 0 for the first clip.
//
// Resolution never looks across tracks. PRECONDITION: the track is sorted and
// non-overlapping; behavior on overlapping tracks is undefined.
func AutoStart(trackIdx, clipIdx int, tracks [][]Span) float64 {
	if trackIdx < 0 || trackIdx >= len(tracks) {
		return 0
	}
	if clipIdx <= 0 || clipIdx > len(tracks[trackIdx]) {
		return 0
	}
	prev := tracks[trackIdx][clipIdx-1]
	return prev.End()
}

// EndLength resolves an "end" length: the distance from start to the current
// timeline end, floored at zero.
func EndLength(start, timelineEnd float64) float64 {
	if timelineEnd <= start {
		return 0
	}
	return timelineEnd - start
}

// TimelineEnd computes the maximum resolved end across all clips in all
// tracks, excluding end-length clips themselves. This single snapshot is the
// authoritative input for resolving every end-length clip in one pass.
func TimelineEnd(tracks [][]Span) float64 {
	var max float64
	for _, track := range tracks {
		for _, span := range track {
			if span.EndLength {
				continue
			}
			if end := span.End(); end > max {
				max = end
			}
		}
	}
	return max
}
