package repository

import (
	"context"

	"github.com/ldostudio/backend/internal/model"
)

// RequestRepository is the persistence interface for client requests.
// Every mutation is a single auto-committed statement; no operation spans
// more than one row.
type RequestRepository interface {
	// Insert stores a new request and populates req.ID, req.Status and
	// req.SubmittedAt from the database.
	Insert(ctx context.Context, req *model.ClientRequest) error

	// Get returns the request with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.ClientRequest, error)

	// List returns requests in triage order: unread before read, then
	// newest-first within each group.
	List(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, error)

	// SetRead sets the read flag to an explicit value. Returns ErrNotFound
	// when the id does not exist.
	SetRead(ctx context.Context, id int64, read bool) error

	// ToggleRead flips the read flag as a single atomic update and returns
	// the new value. Returns ErrNotFound when the id does not exist.
	ToggleRead(ctx context.Context, id int64) (bool, error)

	// Update applies a triage patch (status and/or notes).
	Update(ctx context.Context, id int64, patch model.RequestPatch) error

	// Delete removes the request permanently. Returns ErrNotFound when the
	// id does not exist.
	Delete(ctx context.Context, id int64) error

	// Counts returns the total and unread request counts.
	Counts(ctx context.Context) (*model.RequestCounts, error)

	// ContactFrequency returns request counts grouped by contact, sorted
	// descending by count.
	ContactFrequency(ctx context.Context) ([]*model.ContactFrequency, error)
}
