// Package journal provides an optional SQLite record of executed commands.
//
// The journal is debugging and audit tooling, not a persistence backend:
// each executed command appends one row carrying the logical sequence
// number, the command name, and a full document snapshot. Replay returns
// the rows in execution order so a session's history can be inspected
// after the fact.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/tarlow/cutline/internal/document"
)

//go:embed schema.sql
var schemaSQL string

// Journal is an append-only SQLite log of executed commands.
// Uses WAL mode so readers can inspect the journal while a session writes.
type Journal struct {
	db *sql.DB
}

// Record is one journaled command execution.
type Record struct {
	// Seq is the command log's logical sequence number.
	Seq int64
	// Name is the command name ("add_clip", "update_timing", ...).
	Name string
	// Document is the full document snapshot after the command applied.
	Document []byte
}

// Open creates or opens a journal database at path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//
// Idempotent - safe to call on an existing journal.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: connect: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// Close closes the database connection.
func (j *Journal) Close() error {
	if j == nil || j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Append records one executed command with the post-execution document.
// Uses ON CONFLICT(seq) DO NOTHING for idempotency: re-journaling the same
// sequence number is silently ignored.
func (j *Journal) Append(ctx context.Context, seq int64, name string, edit *document.Edit) error {
	snapshot, err := document.Encode(edit)
	if err != nil {
		return fmt.Errorf("journal: snapshot: %w", err)
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO commands (seq, name, document)
		VALUES (?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`, seq, name, string(snapshot))
	if err != nil {
		return fmt.Errorf("journal: append %s: %w", name, err)
	}
	return nil
}

// Replay returns every journaled command in execution order.
func (j *Journal) Replay(ctx context.Context) ([]Record, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, name, document
		FROM commands
		ORDER BY applied_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("journal: replay: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		var doc string
		if err := rows.Scan(&r.Seq, &r.Name, &doc); err != nil {
			return nil, fmt.Errorf("journal: replay scan: %w", err)
		}
		r.Document = []byte(doc)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: replay rows: %w", err)
	}
	return out, nil
}

// Len returns the number of journaled commands.
func (j *Journal) Len(ctx context.Context) (int, error) {
	var n int
	if err := j.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM commands`).Scan(&n); err != nil {
		return 0, fmt.Errorf("journal: len: %w", err)
	}
	return n, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}
