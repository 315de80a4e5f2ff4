package command

import "sync/atomic"

// Clock is a monotonic logical clock stamping executed commands.
//
// Journals and event consumers order commands by seq, never by wall time,
// so a recorded session replays in the exact original order.
//
// Thread-safety: safe for concurrent use (atomic operations), though the
// session's single-writer discipline means one goroutine calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a clock starting at a specific sequence number.
// Used when resuming a journaled session.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
