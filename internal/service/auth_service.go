package service

import (
	"context"

	"github.com/ldostudio/backend/internal/model"
)

// GoogleUserInfo is the identity asserted by Google's userinfo endpoint.
type GoogleUserInfo struct {
	Sub   string
	Email string
	Name  string
}

// AuthService defines the business logic for operator authentication.
type AuthService interface {
	// LoginWithPassword verifies a username/password pair against the
	// stored bcrypt digest. Returns ErrInvalidCredentials on any failure
	// without revealing which field was wrong.
	LoginWithPassword(ctx context.Context, username, password string) (*model.Operator, error)

	// GetOrCreateFromGoogle resolves a verified Google identity to an
	// operator, creating a non-admin account on first login.
	GetOrCreateFromGoogle(ctx context.Context, info *GoogleUserInfo) (*model.Operator, error)
}
