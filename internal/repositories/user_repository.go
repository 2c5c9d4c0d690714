package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// UserRepository interface for identity store operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	MarkEmailVerified(ctx context.Context, id uint) error

	// Delete removes the user together with pending reset and verification rows
	Delete(ctx context.Context, id uint) error
}

// PasswordResetRepository stores single-use reset tokens
type PasswordResetRepository interface {
	Create(ctx context.Context, reset *models.PasswordReset) error
	GetByToken(ctx context.Context, token string) (*models.PasswordReset, error)

	// Delete returns ErrNotFound when the row is already gone, which makes
	// concurrent consumption of one token fail for all but one caller
	Delete(ctx context.Context, id uint) error
}
