package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Lead statuses used by the workflow fields. Status is free text in
// practice; these are the values the UI offers.
const (
	StatusNew        = "new"
	StatusInProgress = "in progress"
	StatusClosed     = "closed"
)

// Lead represents a prospective-customer business record.
type Lead struct {
	ID           uuid.UUID       `json:"id"`
	ExternalID   *string         `json:"external_id,omitempty"`
	SearchID     *uuid.UUID      `json:"search_id,omitempty"`
	BusinessName string          `json:"business_name"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Address      string          `json:"address"`
	Website      string          `json:"website"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	Notes        string          `json:"notes"`
	CallSchedule *time.Time      `json:"call_schedule,omitempty"`
	IsFavorite   bool            `json:"is_favorite"`
	Source       string          `json:"source"`
	Raw          json.RawMessage `json:"raw"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
