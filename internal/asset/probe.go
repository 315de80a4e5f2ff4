package asset

import "context"

// DurationProber reports the intrinsic duration of source-backed media.
//
// Implemented by the host's media loader in production and by StaticProber
// in tests. Probing is the only asynchronous step in timing resolution, so
// it takes a context; there is no cancellation of a command mid-flight, but
// the host may bound the probe itself.
type DurationProber interface {
	// Probe returns the duration of the asset's media in seconds.
	// It returns a *ProbeError when the media cannot report a duration;
	// callers recover by falling back to a configured default length.
	Probe(ctx context.Context, a *Asset) (float64, error)
}

// StaticProber resolves durations from a fixed src -> seconds table.
//
// Used by hosts that pre-probe their media library, and by tests that need
// deterministic resolution without touching real media.
type StaticProber struct {
	Durations map[string]float64
}

// NewStaticProber creates a prober over a fixed duration table.
func NewStaticProber(durations map[string]float64) *StaticProber {
	return &StaticProber{Durations: durations}
}

// Probe implements DurationProber.
func (p *StaticProber) Probe(_ context.Context, a *Asset) (float64, error) {
	cap, err := Lookup(a.Type)
	if err != nil {
		return 0, err
	}
	if !cap.HasDuration {
		return 0, &ProbeError{Src: a.Src, Reason: "asset kind has no intrinsic duration"}
	}
	d, ok := p.Durations[a.Src]
	if !ok {
		return 0, &ProbeError{Src: a.Src, Reason: "duration unknown"}
	}
	return d, nil
}
