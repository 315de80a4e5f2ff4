package command

import (
	"fmt"
	"log/slog"
)

// Log is the ordered, truncatable stack of executed commands.
//
// history[0..cursor] are executed; anything past cursor is redoable until a
// new Execute truncates it. INVARIANT: after any successful Execute,
// Len() == Cursor()+1.
type Log struct {
	history []Command
	cursor  int
	clock   *Clock

	// executing guards against re-entrant execution: a new command must
	// not begin while a previous command is still settling.
	executing bool
}

// NewLog creates an empty log with cursor -1.
func NewLog() *Log {
	return &Log{cursor: -1, clock: NewClock()}
}

// Execute runs cmd, truncates forward history, pushes, and advances the
// cursor. On failure nothing is recorded: the command contract guarantees
// both layers are untouched.
func (l *Log) Execute(ctx *Context, cmd Command) error {
	if l.executing {
		return fmt.Errorf("command: %s rejected: another command is still executing", cmd.Name())
	}
	l.executing = true
	defer func() { l.executing = false }()

	if err := cmd.Execute(ctx); err != nil {
		return fmt.Errorf("command: execute %s: %w", cmd.Name(), err)
	}

	seq := l.clock.Next()
	// Truncate forward history: redo is discarded once a new command lands.
	l.history = append(l.history[:l.cursor+1], cmd)
	l.cursor++

	slog.Debug("command executed",
		"name", cmd.Name(),
		"seq", seq,
		"cursor", l.cursor,
		"history_len", len(l.history),
	)
	return nil
}

// Undo reverses the command at the cursor and rewinds. No-op when there is
// nothing to undo.
func (l *Log) Undo(ctx *Context) error {
	if l.executing {
		return fmt.Errorf("command: undo rejected: another command is still executing")
	}
	if l.cursor < 0 {
		return nil
	}
	l.executing = true
	defer func() { l.executing = false }()

	cmd := l.history[l.cursor]
	if err := cmd.Undo(ctx); err != nil {
		return fmt.Errorf("command: undo %s: %w", cmd.Name(), err)
	}
	l.cursor--

	slog.Debug("command undone", "name", cmd.Name(), "cursor", l.cursor)
	return nil
}

// Redo re-executes the command just past the cursor. No-op when there is no
// forward history.
func (l *Log) Redo(ctx *Context) error {
	if l.executing {
		return fmt.Errorf("command: redo rejected: another command is still executing")
	}
	if l.cursor >= len(l.history)-1 {
		return nil
	}
	l.executing = true
	defer func() { l.executing = false }()

	cmd := l.history[l.cursor+1]
	if err := cmd.Execute(ctx); err != nil {
		return fmt.Errorf("command: redo %s: %w", cmd.Name(), err)
	}
	l.cursor++

	slog.Debug("command redone", "name", cmd.Name(), "cursor", l.cursor)
	return nil
}

// CanUndo reports whether Undo would do anything.
func (l *Log) CanUndo() bool { return l.cursor >= 0 }

// CanRedo reports whether Redo would do anything.
func (l *Log) CanRedo() bool { return l.cursor < len(l.history)-1 }

// Len returns the number of commands in history.
func (l *Log) Len() int { return len(l.history) }

// Cursor returns the index of the last executed command, -1 when fully
// rewound.
func (l *Log) Cursor() int { return l.cursor }

// Seq returns the logical sequence number of the most recent execution.
func (l *Log) Seq() int64 { return l.clock.Current() }

// Clear drops all history, e.g. after a full reinitializing reload.
func (l *Log) Clear() {
	l.history = nil
	l.cursor = -1
}
