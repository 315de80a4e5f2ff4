package registry

import "github.com/tarlow/cutline/internal/timing"

// Propagate re-resolves symbolic timings after a structural or timing
// change at (trackIdx, fromClipIdx).
//
// The cascade runs in exactly one pass:
//  1. Every subsequent auto-start clip in the changed track is re-resolved
//     in order, starting at fromClipIdx inclusive (so a first clip's auto
//     start recomputes to 0 when its predecessor was removed).
//  2. The timeline end is recomputed once, excluding end-length clips.
//  3. Every end-length clip system-wide is re-resolved from that single
//     snapshot. End-length clips never feed each other, so no repeated
//     re-entrant propagation is needed to reach the fixed point.
//  4. The total duration is updated.
//
// PRECONDITION: tracks are sorted and non-overlapping; auto-start
// resolution on an overlapping track is undefined.
func (r *Registry) Propagate(trackIdx, fromClipIdx int) {
	if trackIdx >= 0 && trackIdx < len(r.tracks) {
		tr := r.tracks[trackIdx]
		from := fromClipIdx
		if from < 0 {
			from = 0
		}
		for i := from; i < len(tr.Clips); i++ {
			clip := tr.Clips[i]
			if !clip.AutoStart {
				continue
			}
			if i == 0 {
				clip.Start = 0
				continue
			}
			clip.Start = tr.Clips[i-1].End()
		}
	}

	end := timing.TimelineEnd(r.Spans())
	for _, tr := range r.tracks {
		for _, clip := range tr.Clips {
			if clip.EndLength {
				clip.Length = timing.EndLength(clip.Start, end)
			}
		}
	}

	r.duration = r.maxEnd()
}

// PropagateAll re-resolves every track. Used after full loads and after
// operations that touch multiple tracks.
func (r *Registry) PropagateAll() {
	for t := range r.tracks {
		tr := r.tracks[t]
		for i, clip := range tr.Clips {
			if !clip.AutoStart {
				continue
			}
			if i == 0 {
				clip.Start = 0
				continue
			}
			clip.Start = tr.Clips[i-1].End()
		}
	}

	end := timing.TimelineEnd(r.Spans())
	for _, tr := range r.tracks {
		for _, clip := range tr.Clips {
			if clip.EndLength {
				clip.Length = timing.EndLength(clip.Start, end)
			}
		}
	}

	r.duration = r.maxEnd()
}

func (r *Registry) maxEnd() float64 {
	var max float64
	for _, tr := range r.tracks {
		for _, clip := range tr.Clips {
			if end := clip.End(); end > max {
				max = end
			}
		}
	}
	return max
}
