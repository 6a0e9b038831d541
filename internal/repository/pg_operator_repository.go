package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ldostudio/backend/internal/model"
)

// PgOperatorRepository is the PostgreSQL implementation of OperatorRepository.
type PgOperatorRepository struct {
	pool *pgxpool.Pool
}

// NewPgOperatorRepository creates a PgOperatorRepository backed by the given pool.
func NewPgOperatorRepository(pool *pgxpool.Pool) *PgOperatorRepository {
	return &PgOperatorRepository{pool: pool}
}

var _ OperatorRepository = (*PgOperatorRepository)(nil)

const operatorSelectCols = `id, username, COALESCE(password_hash, ''), COALESCE(google_id, ''), is_admin, created_at, last_login`

func scanOperator(scan func(...any) error) (*model.Operator, error) {
	var op model.Operator
	if err := scan(&op.ID, &op.Username, &op.PasswordHash, &op.GoogleID,
		&op.IsAdmin, &op.CreatedAt, &op.LastLogin); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// FindByID returns the operator with the given id, or ErrNotFound.
func (r *PgOperatorRepository) FindByID(ctx context.Context, id int64) (*model.Operator, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+operatorSelectCols+` FROM operators WHERE id = $1`, id)
	return scanOperator(row.Scan)
}

// FindByUsername returns the operator with the given username, or ErrNotFound.
func (r *PgOperatorRepository) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+operatorSelectCols+` FROM operators WHERE username = $1`, username)
	return scanOperator(row.Scan)
}

// FindByGoogleID returns the operator bound to the given Google subject, or ErrNotFound.
func (r *PgOperatorRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.Operator, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+operatorSelectCols+` FROM operators WHERE google_id = $1`, googleID)
	return scanOperator(row.Scan)
}

// Create inserts a new operator and populates op.ID and op.CreatedAt.
func (r *PgOperatorRepository) Create(ctx context.Context, op *model.Operator) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO operators (username, password_hash, google_id, is_admin)
		 VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4)
		 RETURNING id, created_at`,
		op.Username, op.PasswordHash, op.GoogleID, op.IsAdmin,
	).Scan(&op.ID, &op.CreatedAt)
}

// UpdateLastLogin stamps last_login with the database clock.
func (r *PgOperatorRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE operators SET last_login = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
