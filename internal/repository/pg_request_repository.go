package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ldostudio/backend/internal/model"
)

// PgRequestRepository is the PostgreSQL implementation of RequestRepository.
type PgRequestRepository struct {
	pool *pgxpool.Pool
}

// NewPgRequestRepository creates a PgRequestRepository backed by the given pool.
func NewPgRequestRepository(pool *pgxpool.Pool) *PgRequestRepository {
	return &PgRequestRepository{pool: pool}
}

// Ensure PgRequestRepository implements RequestRepository at compile time.
var _ RequestRepository = (*PgRequestRepository)(nil)

// Ping verifies the database connection (DB interface).
func (r *PgRequestRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const requestSelectCols = `id, name, contact, COALESCE(category, ''), message, notes, status, is_read, submitted_at`

func scanRequest(scan func(...any) error) (*model.ClientRequest, error) {
	var req model.ClientRequest
	if err := scan(&req.ID, &req.Name, &req.Contact, &req.Category, &req.Message,
		&req.Notes, &req.Status, &req.IsRead, &req.SubmittedAt); err != nil {
		return nil, err
	}
	return &req, nil
}

// Insert stores a new client_requests row. The id, status default and
// submitted_at timestamp come from the database RETURNING clause, so
// submitted_at is assigned exactly once, at insertion.
func (r *PgRequestRepository) Insert(ctx context.Context, req *model.ClientRequest) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO client_requests (name, contact, category, message)
		 VALUES ($1, $2, NULLIF($3, ''), $4)
		 RETURNING id, status, is_read, submitted_at`,
		req.Name, req.Contact, req.Category, req.Message,
	).Scan(&req.ID, &req.Status, &req.IsRead, &req.SubmittedAt)
}

// Get returns the request with the given id, or ErrNotFound.
func (r *PgRequestRepository) Get(ctx context.Context, id int64) (*model.ClientRequest, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+requestSelectCols+` FROM client_requests WHERE id = $1`, id)
	req, err := scanRequest(row.Scan)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return req, err
}

// List returns requests filtered by the given options in triage order:
// unread before read, then newest-first within each group.
func (r *PgRequestRepository) List(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, error) {
	var conditions []string
	var args []any

	status := strings.TrimSpace(opts.Status)
	if status != "" && status != "all" {
		args = append(args, status)
		conditions = append(conditions, "status = $"+strconv.Itoa(len(args)))
	}
	if opts.Unread != nil {
		args = append(args, !*opts.Unread)
		conditions = append(conditions, "is_read = $"+strconv.Itoa(len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := `SELECT ` + requestSelectCols + ` FROM client_requests ` + where +
		` ORDER BY is_read ASC, submitted_at DESC`
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += " OFFSET $" + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []*model.ClientRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

// SetRead sets the read flag to an explicit value.
func (r *PgRequestRepository) SetRead(ctx context.Context, id int64, read bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE client_requests SET is_read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ToggleRead flips the read flag in a single statement so concurrent toggles
// on the same id cannot lose an update.
func (r *PgRequestRepository) ToggleRead(ctx context.Context, id int64) (bool, error) {
	var isRead bool
	err := r.pool.QueryRow(ctx,
		`UPDATE client_requests SET is_read = NOT is_read WHERE id = $1 RETURNING is_read`, id,
	).Scan(&isRead)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrNotFound
	}
	return isRead, err
}

// Update applies a triage patch. Nil patch fields leave the column unchanged.
func (r *PgRequestRepository) Update(ctx context.Context, id int64, patch model.RequestPatch) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE client_requests
		 SET status = COALESCE($2, status), notes = COALESCE($3, notes)
		 WHERE id = $1`,
		id, patch.Status, patch.Notes)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the request permanently. There is no soft delete.
func (r *PgRequestRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM client_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Counts returns total and unread request counts in one query.
func (r *PgRequestRepository) Counts(ctx context.Context) (*model.RequestCounts, error) {
	var c model.RequestCounts
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE NOT is_read) FROM client_requests`,
	).Scan(&c.Total, &c.Unread)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ContactFrequency aggregates request counts per contact, most frequent first.
// Recomputed on every call; the table is small enough that caching is not worth it.
func (r *PgRequestRepository) ContactFrequency(ctx context.Context) ([]*model.ContactFrequency, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT contact, COUNT(*) AS cnt
		 FROM client_requests
		 GROUP BY contact
		 ORDER BY cnt DESC, contact ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var freqs []*model.ContactFrequency
	for rows.Next() {
		var f model.ContactFrequency
		if err := rows.Scan(&f.Contact, &f.Count); err != nil {
			return nil, err
		}
		freqs = append(freqs, &f)
	}
	return freqs, rows.Err()
}
