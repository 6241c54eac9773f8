// Package journal keeps a local sqlite record of the actions an operator took
// through the console and what the backend answered.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the journal database.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// each pooled connection would get its own empty in-memory database
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS actions (
	  id INTEGER PRIMARY KEY AUTOINCREMENT,
	  ts INTEGER NOT NULL,
	  source TEXT NOT NULL,
	  action TEXT NOT NULL,
	  entity_id TEXT,
	  ok INTEGER NOT NULL,
	  message TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_actions_ts ON actions(ts);
	CREATE TABLE IF NOT EXISTS state (
	  key TEXT PRIMARY KEY,
	  value TEXT NOT NULL
	);
	`)
	return err
}

// Entry is one recorded action.
type Entry struct {
	ID       int64
	TS       time.Time
	Source   string // "tui" or "cli"
	Action   string // e.g. "edit_post", "respond_comment"
	EntityID string
	OK       bool
	Message  string
}

// Recorder persists the outcome of operator actions. *DB is the production
// implementation.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

var _ Recorder = (*DB)(nil)

// Record stores e. A zero TS is stamped with the current time.
func (d *DB) Record(ctx context.Context, e Entry) error {
	if e.TS.IsZero() {
		e.TS = time.Now().UTC()
	}
	ok := 0
	if e.OK {
		ok = 1
	}
	_, err := d.sql.ExecContext(ctx, `INSERT INTO actions(ts, source, action, entity_id, ok, message) VALUES(?,?,?,?,?,?)`,
		e.TS.UnixMilli(), e.Source, e.Action, e.EntityID, ok, e.Message)
	return err
}

// Recent returns up to limit entries, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.QueryContext(ctx, `SELECT id, ts, source, action, COALESCE(entity_id,''), ok, COALESCE(message,'') FROM actions ORDER BY ts DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Entry
	for rows.Next() {
		var e Entry
		var ts int64
		var ok int
		if err := rows.Scan(&e.ID, &ts, &e.Source, &e.Action, &e.EntityID, &ok, &e.Message); err != nil {
			return nil, err
		}
		e.TS = time.UnixMilli(ts).UTC()
		e.OK = ok == 1
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountWithin counts actions of type action in [start, end); an empty action
// counts every type.
func (d *DB) CountWithin(ctx context.Context, start, end time.Time, action string) (int, error) {
	var row *sql.Row
	if action == "" {
		row = d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE ts>=? AND ts<?`, start.UnixMilli(), end.UnixMilli())
	} else {
		row = d.sql.QueryRowContext(ctx, `SELECT COUNT(*) FROM actions WHERE ts>=? AND ts<? AND action=?`, start.UnixMilli(), end.UnixMilli(), action)
	}
	var n int
	err := row.Scan(&n)
	return n, err
}

// SaveState stores a small console preference such as the last open page.
func (d *DB) SaveState(ctx context.Context, key, value string) error {
	_, err := d.sql.ExecContext(ctx, `INSERT INTO state(key, value) VALUES(?,?) ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	return err
}

// LoadState returns the stored value, or "" when the key was never saved.
func (d *DB) LoadState(ctx context.Context, key string) (string, error) {
	var v string
	err := d.sql.QueryRowContext(ctx, `SELECT value FROM state WHERE key=?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}
