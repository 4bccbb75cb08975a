package dto

import "time"

// ListFilter contains query parameters for lead listing endpoints.
type ListFilter struct {
	Q        string
	Status   string
	Source   string
	Favorite *bool
	Sort     string
	Page     int
	PerPage  int
}

// Normalize clamps the paging window to sane bounds.
func (f *ListFilter) Normalize() {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.PerPage <= 0 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
}

// CreateLeadRequest is the payload for manually adding a single lead.
type CreateLeadRequest struct {
	BusinessName string `json:"business_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email,omitempty"`
	Address      string `json:"address,omitempty"`
	Website      string `json:"website,omitempty"`
	Category     string `json:"category,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// UpdateLeadRequest captures partial updates to workflow fields.
type UpdateLeadRequest struct {
	Status       *string    `json:"status,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CallSchedule *time.Time `json:"call_schedule,omitempty"`
	IsFavorite   *bool      `json:"is_favorite,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Email        *string    `json:"email,omitempty"`
}

// CleanupSelectionRequest names the leads a bulk cleanup action applies to.
// Confirm must be set for destructive actions; without it nothing mutates.
type CleanupSelectionRequest struct {
	IDs     []string `json:"ids"`
	Confirm bool     `json:"confirm,omitempty"`
}
