package repository

import (
	"context"

	"github.com/ldostudio/backend/internal/model"
)

// DB exposes a liveness check on the underlying connection.
type DB interface {
	Ping(ctx context.Context) error
}

// OperatorRepository is the persistence interface for admin-panel accounts.
type OperatorRepository interface {
	FindByID(ctx context.Context, id int64) (*model.Operator, error)
	FindByUsername(ctx context.Context, username string) (*model.Operator, error)
	FindByGoogleID(ctx context.Context, googleID string) (*model.Operator, error)
	Create(ctx context.Context, op *model.Operator) error
	UpdateLastLogin(ctx context.Context, id int64) error
}
