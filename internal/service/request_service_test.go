package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ldostudio/backend/internal/model"
)

// ---------------------------------------------------------------------------
// mockRequestRepository stubs the repository for service tests
// ---------------------------------------------------------------------------

type mockRequestRepository struct {
	insertFunc    func(ctx context.Context, req *model.ClientRequest) error
	getFunc       func(ctx context.Context, id int64) (*model.ClientRequest, error)
	listFunc      func(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, error)
	setReadFunc   func(ctx context.Context, id int64, read bool) error
	toggleFunc    func(ctx context.Context, id int64) (bool, error)
	updateFunc    func(ctx context.Context, id int64, patch model.RequestPatch) error
	deleteFunc    func(ctx context.Context, id int64) error
	countsFunc    func(ctx context.Context) (*model.RequestCounts, error)
	frequencyFunc func(ctx context.Context) ([]*model.ContactFrequency, error)
}

func (m *mockRequestRepository) Insert(ctx context.Context, req *model.ClientRequest) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, req)
	}
	return nil
}

func (m *mockRequestRepository) Get(ctx context.Context, id int64) (*model.ClientRequest, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRequestRepository) List(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, opts)
	}
	return nil, nil
}

func (m *mockRequestRepository) SetRead(ctx context.Context, id int64, read bool) error {
	if m.setReadFunc != nil {
		return m.setReadFunc(ctx, id, read)
	}
	return nil
}

func (m *mockRequestRepository) ToggleRead(ctx context.Context, id int64) (bool, error) {
	if m.toggleFunc != nil {
		return m.toggleFunc(ctx, id)
	}
	return false, nil
}

func (m *mockRequestRepository) Update(ctx context.Context, id int64, patch model.RequestPatch) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return nil
}

func (m *mockRequestRepository) Delete(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockRequestRepository) Counts(ctx context.Context) (*model.RequestCounts, error) {
	if m.countsFunc != nil {
		return m.countsFunc(ctx)
	}
	return &model.RequestCounts{}, nil
}

func (m *mockRequestRepository) ContactFrequency(ctx context.Context) ([]*model.ContactFrequency, error) {
	if m.frequencyFunc != nil {
		return m.frequencyFunc(ctx)
	}
	return nil, nil
}

// mockNotifier records notification calls and can be told to fail.
type mockNotifier struct {
	mu     sync.Mutex
	called chan *model.ClientRequest
	err    error
}

func newMockNotifier(err error) *mockNotifier {
	return &mockNotifier{called: make(chan *model.ClientRequest, 1), err: err}
}

func (m *mockNotifier) NotifyNewRequest(ctx context.Context, req *model.ClientRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.called <- req
	return m.err
}

func defaultPolicy() RequestPolicy {
	return RequestPolicy{RequireMessage: true}
}

// ---------------------------------------------------------------------------
// Submit tests
// ---------------------------------------------------------------------------

func TestRequestService_Submit_PersistsTrimmedFields(t *testing.T) {
	var saved *model.ClientRequest
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			saved = req
			req.ID = 42
			req.Status = model.StatusNew
			req.SubmittedAt = time.Now()
			return nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	req := &model.ClientRequest{
		Name:    "  Alice  ",
		Contact: " alice@example.com ",
		Message: " Need a website ",
	}
	if err := svc.Submit(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved == nil {
		t.Fatal("expected Insert to be called")
	}
	if saved.Name != "Alice" {
		t.Errorf("expected trimmed name, got %q", saved.Name)
	}
	if saved.Contact != "alice@example.com" {
		t.Errorf("expected trimmed contact, got %q", saved.Contact)
	}
	if saved.Message != "Need a website" {
		t.Errorf("expected trimmed message, got %q", saved.Message)
	}
	if req.ID != 42 {
		t.Errorf("expected id populated by store, got %d", req.ID)
	}
}

func TestRequestService_Submit_EmptyName_ValidationError(t *testing.T) {
	inserted := false
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			inserted = true
			return nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	err := svc.Submit(context.Background(), &model.ClientRequest{
		Name:    "   ",
		Contact: "a@b.com",
		Message: "hi",
	})
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Errorf("expected field=name, got %q", ve.Field)
	}
	if inserted {
		t.Error("store must not be touched on validation failure")
	}
}

func TestRequestService_Submit_EmptyContact_ValidationError(t *testing.T) {
	inserted := false
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			inserted = true
			return nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	err := svc.Submit(context.Background(), &model.ClientRequest{
		Name:    "Bob",
		Message: "hi",
	})
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Field != "contact" {
		t.Errorf("expected field=contact, got %q", ve.Field)
	}
	if inserted {
		t.Error("store must not be touched on validation failure")
	}
}

func TestRequestService_Submit_MessagePolicy(t *testing.T) {
	mock := &mockRequestRepository{}

	// Required by default.
	strict := NewRequestService(mock, nil, RequestPolicy{RequireMessage: true})
	err := strict.Submit(context.Background(), &model.ClientRequest{Name: "Bob", Contact: "b@c.de"})
	if _, ok := AsValidation(err); !ok {
		t.Errorf("expected ValidationError with RequireMessage=true, got %v", err)
	}

	// Optional when the policy relaxes it.
	relaxed := NewRequestService(mock, nil, RequestPolicy{RequireMessage: false})
	if err := relaxed.Submit(context.Background(), &model.ClientRequest{Name: "Bob", Contact: "b@c.de"}); err != nil {
		t.Errorf("expected success with RequireMessage=false, got %v", err)
	}
}

func TestRequestService_Submit_RepositoryError(t *testing.T) {
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			return errors.New("db write failed")
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	err := svc.Submit(context.Background(), &model.ClientRequest{
		Name: "Bob", Contact: "b@c.de", Message: "hi",
	})
	if err == nil {
		t.Error("expected error from repository, got nil")
	}
	if _, ok := AsValidation(err); ok {
		t.Error("store failure must not be reported as a validation error")
	}
}

func TestRequestService_Submit_NotifierCalled(t *testing.T) {
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			req.ID = 7
			return nil
		},
	}
	notifier := newMockNotifier(nil)
	svc := NewRequestService(mock, notifier, defaultPolicy())

	err := svc.Submit(context.Background(), &model.ClientRequest{
		Name: "Bob", Contact: "b@c.de", Message: "hi",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case got := <-notifier.called:
		if got.ID != 7 {
			t.Errorf("expected notified request id=7, got %d", got.ID)
		}
	case <-time.After(time.Second):
		t.Error("expected notifier to be called")
	}
}

// TestRequestService_Submit_NotifierFailureDoesNotFailSubmit verifies the
// fire-and-forget contract: a broken channel never surfaces to the submitter.
func TestRequestService_Submit_NotifierFailureDoesNotFailSubmit(t *testing.T) {
	inserted := false
	mock := &mockRequestRepository{
		insertFunc: func(ctx context.Context, req *model.ClientRequest) error {
			inserted = true
			return nil
		},
	}
	notifier := newMockNotifier(errors.New("chat unreachable"))
	svc := NewRequestService(mock, notifier, defaultPolicy())

	err := svc.Submit(context.Background(), &model.ClientRequest{
		Name: "Bob", Contact: "b@c.de", Message: "hi",
	})
	if err != nil {
		t.Fatalf("submit must succeed despite notifier failure, got %v", err)
	}
	if !inserted {
		t.Error("expected request to be persisted")
	}

	select {
	case <-notifier.called:
	case <-time.After(time.Second):
		t.Error("expected notifier to be called")
	}
}

// ---------------------------------------------------------------------------
// Triage tests
// ---------------------------------------------------------------------------

func TestRequestService_ViewAll_ReturnsListAndCounts(t *testing.T) {
	want := []*model.ClientRequest{
		{ID: 3, Name: "C", IsRead: false},
		{ID: 1, Name: "A", IsRead: false},
		{ID: 2, Name: "B", IsRead: true},
	}
	mock := &mockRequestRepository{
		listFunc: func(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, error) {
			return want, nil
		},
		countsFunc: func(ctx context.Context) (*model.RequestCounts, error) {
			return &model.RequestCounts{Total: 3, Unread: 2}, nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	got, counts, err := svc.ViewAll(context.Background(), model.RequestListOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0].ID != 3 {
		t.Errorf("expected list forwarded in store order, got %v", got)
	}
	if counts.Total != 3 || counts.Unread != 2 {
		t.Errorf("expected counts total=3 unread=2, got %+v", counts)
	}
}

func TestRequestService_Toggle_ForwardsAtomicFlip(t *testing.T) {
	var toggledID int64
	mock := &mockRequestRepository{
		toggleFunc: func(ctx context.Context, id int64) (bool, error) {
			toggledID = id
			return true, nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	isRead, err := svc.Toggle(context.Background(), 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toggledID != 9 {
		t.Errorf("expected toggle on id=9, got %d", toggledID)
	}
	if !isRead {
		t.Error("expected new value true")
	}
}

func TestRequestService_UpdateTriage_RejectsUnknownStatus(t *testing.T) {
	updated := false
	mock := &mockRequestRepository{
		updateFunc: func(ctx context.Context, id int64, patch model.RequestPatch) error {
			updated = true
			return nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	bad := "archived"
	err := svc.UpdateTriage(context.Background(), 1, model.RequestPatch{Status: &bad})
	if _, ok := AsValidation(err); !ok {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if updated {
		t.Error("store must not be touched for an invalid status")
	}
}

func TestRequestService_UpdateTriage_RejectsEmptyPatch(t *testing.T) {
	svc := NewRequestService(&mockRequestRepository{}, nil, defaultPolicy())
	err := svc.UpdateTriage(context.Background(), 1, model.RequestPatch{})
	if _, ok := AsValidation(err); !ok {
		t.Errorf("expected ValidationError for empty patch, got %v", err)
	}
}

func TestRequestService_UpdateTriage_AppliesPatch(t *testing.T) {
	var gotPatch model.RequestPatch
	mock := &mockRequestRepository{
		updateFunc: func(ctx context.Context, id int64, patch model.RequestPatch) error {
			gotPatch = patch
			return nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	status := model.StatusDone
	notes := "handled by phone"
	err := svc.UpdateTriage(context.Background(), 1, model.RequestPatch{Status: &status, Notes: &notes})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPatch.Status == nil || *gotPatch.Status != model.StatusDone {
		t.Error("expected status forwarded")
	}
	if gotPatch.Notes == nil || *gotPatch.Notes != "handled by phone" {
		t.Error("expected notes forwarded")
	}
}

func TestRequestService_ContactStats_Forwards(t *testing.T) {
	want := []*model.ContactFrequency{
		{Contact: "a@b.com", Count: 5},
		{Contact: "c@d.com", Count: 2},
	}
	mock := &mockRequestRepository{
		frequencyFunc: func(ctx context.Context) ([]*model.ContactFrequency, error) {
			return want, nil
		},
	}
	svc := NewRequestService(mock, nil, defaultPolicy())

	got, err := svc.ContactStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Count != 5 {
		t.Errorf("expected stats forwarded descending, got %v", got)
	}
}
