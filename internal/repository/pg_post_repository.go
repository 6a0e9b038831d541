package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ldostudio/backend/internal/model"
)

// PostRepository defines the persistence interface for blog posts.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, limit, offset int) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id int64) error
}

// PgPostRepository is the PostgreSQL implementation of PostRepository.
type PgPostRepository struct {
	pool *pgxpool.Pool
}

// NewPgPostRepository creates a PgPostRepository backed by the given pool.
func NewPgPostRepository(pool *pgxpool.Pool) *PgPostRepository {
	return &PgPostRepository{pool: pool}
}

var _ PostRepository = (*PgPostRepository)(nil)

// Create inserts a new posts row and populates post.ID and timestamps.
func (r *PgPostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO posts (title, body)
		 VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		post.Title, post.Body,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

// Get returns the post with the given id, or ErrNotFound.
func (r *PgPostRepository) Get(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := r.pool.QueryRow(ctx,
		`SELECT id, title, body, created_at, updated_at FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns posts newest-first, paginated by limit/offset.
func (r *PgPostRepository) List(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, title, body, created_at, updated_at
		 FROM posts
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		posts = append(posts, &p)
	}
	return posts, rows.Err()
}

// Update rewrites title and body and bumps updated_at.
func (r *PgPostRepository) Update(ctx context.Context, post *model.Post) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE posts SET title = $2, body = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at`,
		post.ID, post.Title, post.Body,
	).Scan(&post.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// Delete removes the post permanently.
func (r *PgPostRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
