package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ldostudio/backend/internal/model"
	"github.com/ldostudio/backend/internal/repository"
)

// authServiceImpl is the production implementation of AuthService.
type authServiceImpl struct {
	operators repository.OperatorRepository
}

// NewAuthService creates an AuthService backed by the given operator repository.
func NewAuthService(operators repository.OperatorRepository) AuthService {
	return &authServiceImpl{operators: operators}
}

// LoginWithPassword authenticates an operator by username and password.
func (s *authServiceImpl) LoginWithPassword(ctx context.Context, username, password string) (*model.Operator, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	op, err := s.operators.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find operator: %w", err)
	}

	// Operators provisioned via Google only have no password digest.
	if op.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := s.operators.UpdateLastLogin(ctx, op.ID); err != nil {
		// Login still succeeds; the stamp is advisory.
		slog.Warn("update last_login failed", "operator_id", op.ID, "error", err)
	}

	slog.Info("operator logged in", "operator_id", op.ID, "username", op.Username)
	return op, nil
}

// GetOrCreateFromGoogle resolves the Google subject to an operator account.
// First-time logins create a non-admin operator named after the email.
func (s *authServiceImpl) GetOrCreateFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.Operator, error) {
	op, err := s.operators.FindByGoogleID(ctx, info.Sub)
	if err == nil {
		if err := s.operators.UpdateLastLogin(ctx, op.ID); err != nil {
			slog.Warn("update last_login failed", "operator_id", op.ID, "error", err)
		}
		return op, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("find operator by google id: %w", err)
	}

	username := strings.TrimSpace(info.Email)
	if username == "" {
		username = "google:" + info.Sub
	}
	newOp := &model.Operator{
		Username: username,
		GoogleID: info.Sub,
	}
	if err := s.operators.Create(ctx, newOp); err != nil {
		return nil, fmt.Errorf("create operator: %w", err)
	}
	slog.Info("operator created from google login", "operator_id", newOp.ID, "username", newOp.Username)
	return newOp, nil
}
