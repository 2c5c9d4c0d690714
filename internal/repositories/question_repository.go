package repositories

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionRepository interface for question bank operations
type QuestionRepository interface {
	// Create inserts the question and its Options
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, filters QuestionFilters) ([]*models.Question, error)

	// Update writes scalar fields only
	Update(ctx context.Context, question *models.Question) error
	// ReplaceOptions deletes every option of the question and inserts options
	ReplaceOptions(ctx context.Context, questionID uint, options []models.QuestionOption) error
	// Delete removes the question and its options
	Delete(ctx context.Context, id uint) error

	// GetByTest resolves the questions linked into a test in link order
	GetByTest(ctx context.Context, testID uint, withOptions bool) ([]*models.Question, error)
	// ExistingIDs returns the subset of ids that exist
	ExistingIDs(ctx context.Context, ids []uint) ([]uint, error)
	IsUsedInTests(ctx context.Context, id uint) (bool, error)
}

// SubjectRepository interface for the subject and topic catalog
type SubjectRepository interface {
	CreateSubject(ctx context.Context, subject *models.Subject) error
	GetSubject(ctx context.Context, id uint) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)

	CreateTopic(ctx context.Context, topic *models.Topic) error
	GetTopic(ctx context.Context, id uint) (*models.Topic, error)
	ListTopics(ctx context.Context, subjectID uint) ([]*models.Topic, error)
}
