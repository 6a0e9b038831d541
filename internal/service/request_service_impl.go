package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/repository"
)

// notifyTimeout bounds the outbound notification call so a slow or
// unreachable channel cannot stall anything that waits on it.
const notifyTimeout = 5 * time.Second

// RequestPolicy carries the configurable validation rules for intake.
type RequestPolicy struct {
	// RequireMessage controls whether an empty message is rejected.
	RequireMessage bool
}

// requestServiceImpl is the production implementation of RequestService.
type requestServiceImpl struct {
	repo     repository.RequestRepository
	notifier Notifier
	policy   RequestPolicy
}

// NewRequestService creates a RequestService backed by the given repository.
// notifier may be nil, in which case submissions are stored without notifying.
func NewRequestService(repo repository.RequestRepository, notifier Notifier, policy RequestPolicy) RequestService {
	return &requestServiceImpl{repo: repo, notifier: notifier, policy: policy}
}

// Submit validates the request, persists it and fires the notification in the
// background. A notification failure is logged and never surfaced to the
// submitter; the insert is already committed by then.
func (s *requestServiceImpl) Submit(ctx context.Context, req *model.ClientRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Contact = strings.TrimSpace(req.Contact)
	req.Category = strings.TrimSpace(req.Category)
	req.Message = strings.TrimSpace(req.Message)

	if req.Name == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	if req.Contact == "" {
		return &ValidationError{Field: "contact", Reason: "required"}
	}
	if s.policy.RequireMessage && req.Message == "" {
		return &ValidationError{Field: "message", Reason: "required"}
	}

	if err := s.repo.Insert(ctx, req); err != nil {
		return err
	}

	if s.notifier != nil {
		// Fire-and-forget on a fresh context: the HTTP request context is
		// canceled as soon as the response is written.
		saved := *req
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := s.notifier.NotifyNewRequest(nctx, &saved); err != nil {
				slog.Warn("request notification failed", "request_id", saved.ID, "error", err)
			}
		}()
	}
	return nil
}

// ViewAll returns the triage listing plus aggregate counts.
func (s *requestServiceImpl) ViewAll(ctx context.Context, opts model.RequestListOptions) ([]*model.ClientRequest, *model.RequestCounts, error) {
	requests, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	counts, err := s.repo.Counts(ctx)
	if err != nil {
		return nil, nil, err
	}
	return requests, counts, nil
}

// Toggle flips the read flag via the repository's atomic update.
func (s *requestServiceImpl) Toggle(ctx context.Context, id int64) (bool, error) {
	return s.repo.ToggleRead(ctx, id)
}

// UpdateTriage applies a status/notes patch after validating the status enum.
func (s *requestServiceImpl) UpdateTriage(ctx context.Context, id int64, patch model.RequestPatch) error {
	if patch.Status != nil && !model.ValidStatus(*patch.Status) {
		return &ValidationError{Field: "status", Reason: "must be new, in_progress or done"}
	}
	if patch.Status == nil && patch.Notes == nil {
		return &ValidationError{Field: "patch", Reason: "empty"}
	}
	return s.repo.Update(ctx, id, patch)
}

// Remove deletes the request. No soft delete, no undo.
func (s *requestServiceImpl) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ContactStats returns the "who writes most" aggregation.
func (s *requestServiceImpl) ContactStats(ctx context.Context) ([]*model.ContactFrequency, error) {
	return s.repo.ContactFrequency(ctx)
}
