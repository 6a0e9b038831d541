package model

import "time"

// Request statuses. A request starts as "new" and is moved through the
// pipeline by an operator.
const (
	StatusNew        = "new"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

// ValidStatus reports whether s is one of the known request statuses.
func ValidStatus(s string) bool {
	return s == StatusNew || s == StatusInProgress || s == StatusDone
}

// ClientRequest represents one inbound inquiry submitted via the contact form.
type ClientRequest struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Contact     string    `json:"contact"`
	Category    string    `json:"category,omitempty"`
	Message     string    `json:"message"`
	Notes       string    `json:"notes,omitempty"`
	Status      string    `json:"status"`
	IsRead      bool      `json:"is_read"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// RequestListOptions carries filter and pagination parameters for listing
// client requests. The zero value returns everything in triage order.
type RequestListOptions struct {
	// Status filters by request status: "", "all", "new", "in_progress", "done".
	// Empty string and "all" return all requests.
	Status string
	// Unread, when non-nil, filters by the read flag.
	Unread *bool
	Limit  int
	Offset int
}

// RequestCounts holds the aggregate counters shown in the admin panel.
type RequestCounts struct {
	Total  int `json:"total"`
	Unread int `json:"unread"`
}

// ContactFrequency is one row of the "who writes most" aggregation:
// the number of requests grouped by contact, sorted descending by count.
type ContactFrequency struct {
	Contact string `json:"contact"`
	Count   int    `json:"count"`
}

// RequestPatch carries optional triage updates. Nil fields are left unchanged.
type RequestPatch struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}
