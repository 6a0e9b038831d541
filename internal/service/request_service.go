package service

import (
	"context"

	"github.com/ldostudio/backend/internal/model"
)

// Notifier delivers a one-way message about a new client request to an
// external channel. Delivery is best-effort: failures are logged by the
// caller and never affect the primary write.
type Notifier interface {
	NotifyNewRequest(ctx context.Context, req *model.ClientRequest) error
}

// RequestService defines the business logic for client request intake and triage.
type RequestService interface {
	// Submit validates and stores a new request. On success req.ID and
	// req.SubmittedAt are populated and a notification is fired
	// asynchronously. Returns *ValidationError for rejected input.
	Submit(ctx context.Context, req *model.ClientRequest) error

	// ViewAll returns requests in triage order together with total/unread counts.
	ViewAll(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, *model.RequestCounts, error)

	// Toggle atomically flips the read flag and returns the new value.
	Toggle(ctx context.Context, id int64) (bool, error)

	// UpdateTriage applies a status/notes patch. The status value, when
	// present, must be one of the known statuses.
	UpdateTriage(ctx context.Context, id int64, patch model.RequestPatch) error

	// Remove deletes the request permanently.
	Remove(ctx context.Context, id int64) error

	// ContactStats returns the per-contact request frequency table.
	ContactStats(ctx context.Context) ([]*model.ContactFrequency, error)
}
