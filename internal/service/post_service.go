package service

import (
	"context"
	"strings"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/repository"
)

// PostService defines the business logic for blog posts.
type PostService interface {
	Create(ctx context.Context, title, body string) (*model.Post, error)
	Get(ctx context.Context, id int64) (*model.Post, error)
	List(ctx context.Context, limit, offset int) ([]*model.Post, error)
	Update(ctx context.Context, id int64, title, body string) (*model.Post, error)
	Delete(ctx context.Context, id int64) error
}

// PostServiceImpl is the production implementation of PostService.
type PostServiceImpl struct {
	repo repository.PostRepository
}

// NewPostService creates a PostService backed by the given repository.
func NewPostService(repo repository.PostRepository) PostService {
	return &PostServiceImpl{repo: repo}
}

func validatePost(title, body string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(body) == "" {
		return &ValidationError{Field: "body", Reason: "required"}
	}
	return nil
}

// Create stores a new post.
func (s *PostServiceImpl) Create(ctx context.Context, title, body string) (*model.Post, error) {
	if err := validatePost(title, body); err != nil {
		return nil, err
	}
	post := &model.Post{Title: strings.TrimSpace(title), Body: body}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get returns a single post.
func (s *PostServiceImpl) Get(ctx context.Context, id int64) (*model.Post, error) {
	return s.repo.Get(ctx, id)
}

// List returns posts newest-first.
func (s *PostServiceImpl) List(ctx context.Context, limit, offset int) ([]*model.Post, error) {
	return s.repo.List(ctx, limit, offset)
}

// Update rewrites a post's title and body.
func (s *PostServiceImpl) Update(ctx context.Context, id int64, title, body string) (*model.Post, error) {
	if err := validatePost(title, body); err != nil {
		return nil, err
	}
	post := &model.Post{ID: id, Title: strings.TrimSpace(title), Body: body}
	if err := s.repo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post permanently.
func (s *PostServiceImpl) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
