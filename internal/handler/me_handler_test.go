package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/repository"
	"github.com/ldostudio/backend/pkg/auth"
)

// mockOperatorRepository implements repository.OperatorRepository for handler tests.
type mockOperatorRepository struct {
	findByIDFunc       func(ctx context.Context, id int64) (*model.Operator, error)
	findByUsernameFunc func(ctx context.Context, username string) (*model.Operator, error)
	findByGoogleIDFunc func(ctx context.Context, googleID string) (*model.Operator, error)
	createFunc         func(ctx context.Context, op *model.Operator) error
	updateLastLoginFn  func(ctx context.Context, id int64) error
}

func (m *mockOperatorRepository) FindByID(ctx context.Context, id int64) (*model.Operator, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockOperatorRepository) FindByUsername(ctx context.Context, username string) (*model.Operator, error) {
	return m.findByUsernameFunc(ctx, username)
}

func (m *mockOperatorRepository) FindByGoogleID(ctx context.Context, googleID string) (*model.Operator, error) {
	return m.findByGoogleIDFunc(ctx, googleID)
}

func (m *mockOperatorRepository) Create(ctx context.Context, op *model.Operator) error {
	return m.createFunc(ctx, op)
}

func (m *mockOperatorRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	return m.updateLastLoginFn(ctx, id)
}

var _ repository.OperatorRepository = (*mockOperatorRepository)(nil)

func TestMe_ReturnsOperator(t *testing.T) {
	repo := &mockOperatorRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Operator, error) {
			if id != 8 {
				t.Errorf("expected id 8, got %d", id)
			}
			return &model.Operator{ID: 8, Username: "mia", IsAdmin: true}, nil
		},
	}
	h := NewMeHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(auth.WithOperatorID(req.Context(), 8))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var op model.Operator
	if err := json.NewDecoder(rec.Body).Decode(&op); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if op.ID != 8 || op.Username != "mia" {
		t.Errorf("unexpected operator: %+v", op)
	}
}

func TestMe_NoOperatorInContext(t *testing.T) {
	h := NewMeHandler(&mockOperatorRepository{})

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestMe_OperatorGone(t *testing.T) {
	repo := &mockOperatorRepository{
		findByIDFunc: func(ctx context.Context, id int64) (*model.Operator, error) {
			return nil, repository.ErrNotFound
		},
	}
	h := NewMeHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req = req.WithContext(auth.WithOperatorID(req.Context(), 404))
	rec := httptest.NewRecorder()
	h.Me(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
