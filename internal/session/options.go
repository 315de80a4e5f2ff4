package session

import (
	"log/slog"

	"github.com/tarlow/cutline/internal/asset"
	"github.com/tarlow/cutline/internal/journal"
	"github.com/tarlow/cutline/internal/registry"
)

// DefaultClipLength is the fallback length in seconds for an "auto" length
// whose media could not be probed.
const DefaultClipLength = 3.0

// eventBufferSize bounds the outbound event channel. Emission never blocks
// the writer; events past the buffer are dropped with a debug log.
const eventBufferSize = 64

// Option configures a Session at construction.
type Option func(*Session)

// WithProber sets the duration prober used to resolve "auto" lengths.
// Without one, every auto length falls back to the default clip length.
func WithProber(p asset.DurationProber) Option {
	return func(s *Session) { s.prober = p }
}

// WithIDGenerator sets the stable-ID generator for runtime clips and tracks.
// Tests pass a fixed or sequential generator for deterministic output.
func WithIDGenerator(gen registry.IDGenerator) Option {
	return func(s *Session) { s.gen = gen }
}

// WithDefaultClipLength overrides the probe-failure fallback length.
func WithDefaultClipLength(seconds float64) Option {
	return func(s *Session) { s.defaultLength = seconds }
}

// WithJournal attaches a command journal. Every executed command is appended
// with its post-execution document snapshot; journal failures are logged and
// never fail the command.
func WithJournal(j *journal.Journal) Option {
	return func(s *Session) { s.jnl = j }
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) { s.logger = logger }
}
