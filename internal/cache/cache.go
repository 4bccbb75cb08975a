// Package cache provides the process-local key-value boundary: a bounded,
// ordered, keyed log with eviction of the oldest entries past a fixed
// per-key capacity. It backs the search-term history (10 entries) and the
// dated backup snapshots (50 entries).
package cache

import (
	"context"
	"time"
)

// Entry is one element of a keyed log.
type Entry struct {
	Value      []byte    `json:"value"`
	InsertedAt time.Time `json:"inserted_at"`
}

// Log is a bounded, ordered, keyed log. Append evicts the oldest entries
// once a key exceeds its capacity; Entries returns newest first; Rewrite
// replaces a key's contents wholesale (used for move-to-front semantics).
type Log interface {
	Append(ctx context.Context, key string, value []byte, capacity int) error
	Entries(ctx context.Context, key string) ([]Entry, error)
	Rewrite(ctx context.Context, key string, values [][]byte, capacity int) error
}
