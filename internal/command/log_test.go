package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingCommand tracks execute/undo calls against a shared counter.
type countingCommand struct {
	name    string
	counter *int
	fail    bool
}

func (c *countingCommand) Name() string { return c.name }

func (c *countingCommand) Execute(*Context) error {
	if c.fail {
		return errors.New("boom")
	}
	*c.counter++
	return nil
}

func (c *countingCommand) Undo(*Context) error {
	*c.counter--
	return nil
}

func TestLog_ExecuteAdvancesCursor(t *testing.T) {
	l := NewLog()
	n := 0

	require.NoError(t, l.Execute(nil, &countingCommand{name: "a", counter: &n}))
	require.NoError(t, l.Execute(nil, &countingCommand{name: "b", counter: &n}))

	assert.Equal(t, 2, n)
	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 1, l.Cursor())
	assert.True(t, l.CanUndo())
	assert.False(t, l.CanRedo())
	assert.Equal(t, int64(2), l.Seq())
}

func TestLog_FailedExecuteRecordsNothing(t *testing.T) {
	l := NewLog()
	n := 0

	err := l.Execute(nil, &countingCommand{name: "bad", counter: &n, fail: true})
	require.Error(t, err)
	assert.Zero(t, l.Len())
	assert.Equal(t, -1, l.Cursor())
}

func TestLog_UndoRedo(t *testing.T) {
	l := NewLog()
	n := 0
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, l.Execute(nil, &countingCommand{name: name, counter: &n}))
	}

	require.NoError(t, l.Undo(nil))
	require.NoError(t, l.Undo(nil))
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, l.Cursor())
	assert.True(t, l.CanRedo())

	require.NoError(t, l.Redo(nil))
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, l.Cursor())
}

func TestLog_UndoPastStartIsNoop(t *testing.T) {
	l := NewLog()
	require.NoError(t, l.Undo(nil))
	assert.Equal(t, -1, l.Cursor())
}

func TestLog_RedoWithoutForwardHistoryIsNoop(t *testing.T) {
	l := NewLog()
	n := 0
	require.NoError(t, l.Execute(nil, &countingCommand{name: "a", counter: &n}))
	require.NoError(t, l.Redo(nil))
	assert.Equal(t, 1, n)
}

func TestLog_ExecuteWhileRewoundTruncatesForwardHistory(t *testing.T) {
	l := NewLog()
	n := 0
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Execute(nil, &countingCommand{name: "c", counter: &n}))
	}

	require.NoError(t, l.Undo(nil))
	require.NoError(t, l.Undo(nil))
	require.NoError(t, l.Execute(nil, &countingCommand{name: "new", counter: &n}))

	// Forward history is discarded; redo is a no-op.
	assert.Equal(t, l.Cursor()+1, l.Len())
	before := n
	require.NoError(t, l.Redo(nil))
	assert.Equal(t, before, n)
	assert.Equal(t, 4, l.Len())
}

func TestLog_Clear(t *testing.T) {
	l := NewLog()
	n := 0
	require.NoError(t, l.Execute(nil, &countingCommand{name: "a", counter: &n}))

	l.Clear()
	assert.Zero(t, l.Len())
	assert.False(t, l.CanUndo())
	assert.False(t, l.CanRedo())
}

func TestClock(t *testing.T) {
	c := NewClock()
	assert.Equal(t, int64(1), c.Next())
	assert.Equal(t, int64(2), c.Next())
	assert.Equal(t, int64(2), c.Current())

	at := NewClockAt(10)
	assert.Equal(t, int64(11), at.Next())
}
