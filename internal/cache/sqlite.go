package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteLog implements Log on a local SQLite file via modernc.org/sqlite.
type SQLiteLog struct {
	db *sql.DB
}

// NewSQLiteLog opens (or creates) the cache database at path and applies
// the schema. Use ":memory:" for an ephemeral cache.
func NewSQLiteLog(path string) (*SQLiteLog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS log_entries (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		key         TEXT NOT NULL,
		value       BLOB NOT NULL,
		inserted_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_log_entries_key ON log_entries(key, id);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLiteLog{db: db}, nil
}

// Close releases the underlying database handle.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}

// Append inserts a value under key and evicts the oldest rows past capacity.
func (l *SQLiteLog) Append(ctx context.Context, key string, value []byte, capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("capacity must be positive, got %d", capacity)
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO log_entries (key, value, inserted_at) VALUES (?, ?, ?)`,
		key, value, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("append cache entry: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM log_entries
		WHERE key = ? AND id NOT IN (
			SELECT id FROM log_entries WHERE key = ? ORDER BY id DESC LIMIT ?
		)`, key, key, capacity,
	); err != nil {
		return fmt.Errorf("evict cache entries: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}

// Entries returns all values stored under key, newest first.
func (l *SQLiteLog) Entries(ctx context.Context, key string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT value, inserted_at FROM log_entries WHERE key = ? ORDER BY id DESC`, key)
	if err != nil {
		return nil, fmt.Errorf("list cache entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.Value, &entry.InsertedAt); err != nil {
			return nil, fmt.Errorf("scan cache entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cache entries: %w", err)
	}
	return entries, nil
}

// Rewrite replaces the contents of key with values (given newest first),
// trimmed to capacity.
func (l *SQLiteLog) Rewrite(ctx context.Context, key string, values [][]byte, capacity int) error {
	if capacity > 0 && len(values) > capacity {
		values = values[:capacity]
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin cache tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM log_entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("clear cache key: %w", err)
	}

	// Insert oldest first so "newest first" reads back in the given order.
	now := time.Now().UTC()
	for i := len(values) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO log_entries (key, value, inserted_at) VALUES (?, ?, ?)`,
			key, values[i], now,
		); err != nil {
			return fmt.Errorf("rewrite cache entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit cache tx: %w", err)
	}
	return nil
}

var _ Log = (*SQLiteLog)(nil)
