package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// TestRepository interface for the test catalog
type TestRepository interface {
	// Create inserts the test row and one link per question id
	Create(ctx context.Context, test *models.Test, questionIDs []uint) error
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	List(ctx context.Context) ([]*models.Test, error)
	// ListAssignedTo inner-joins tests with the user's assignments, so a
	// test assigned twice is listed twice
	ListAssignedTo(ctx context.Context, userID uint) ([]*models.Test, error)

	// UpdateFields changes only the given columns
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ReplaceQuestions(ctx context.Context, testID uint, questionIDs []uint) error
	GetQuestionLinks(ctx context.Context, testID uint) ([]*models.TestQuestion, error)

	// Delete removes question links, assignments and then the test row
	Delete(ctx context.Context, id uint) error
}

// AssignmentRepository interface for test assignments
type AssignmentRepository interface {
	CreateBatch(ctx context.Context, assignments []*models.TestAssignment) error
	ListByTest(ctx context.Context, testID uint) ([]*models.TestAssignment, error)
}
