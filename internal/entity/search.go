package entity

import (
	"time"

	"github.com/google/uuid"
)

// Search is one audit-log entry for a search-and-save run. Rows are
// append-only; re-running a term logs a fresh entry.
type Search struct {
	ID           uuid.UUID `json:"id"`
	Term         string    `json:"term"`
	Location     string    `json:"location"`
	Source       string    `json:"source"`
	TotalResults int       `json:"total_results"`
	ExecutedAt   time.Time `json:"executed_at"`
}

// SearchResult links a search to one lead it produced, with the rank the
// provider returned it at.
type SearchResult struct {
	SearchID   uuid.UUID `json:"search_id"`
	LeadID     uuid.UUID `json:"lead_id"`
	Rank       int       `json:"rank"`
	InsertedAt time.Time `json:"inserted_at"`
}
