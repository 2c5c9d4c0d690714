package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// AttemptRepository interface for test attempts
type AttemptRepository interface {
	// Create returns ErrDuplicate when the user already has an attempt for
	// the test. The check is the unique index, not a prior read.
	Create(ctx context.Context, attempt *models.TestAttempt) error
	GetByTestAndUser(ctx context.Context, testID, userID uint) (*models.TestAttempt, error)
	ListByTest(ctx context.Context, testID uint) ([]*models.TestAttempt, error)
	ListByTestAndUser(ctx context.Context, testID, userID uint) ([]*models.TestAttempt, error)

	GetScoreStats(ctx context.Context, testID uint) (*ScoreStats, error)
}
