package repositories

import (
	"context"
	"errors"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

var (
	// ErrNotFound is returned when a lookup by key matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("duplicate record")
)

// Repository aggregates every repository behind one transaction boundary
type Repository interface {
	User() UserRepository
	PasswordReset() PasswordResetRepository
	Subject() SubjectRepository
	Question() QuestionRepository
	Test() TestRepository
	Assignment() AssignmentRepository
	Attempt() AttemptRepository

	// Transaction runs fn against a repository bound to a single database
	// transaction. The transaction commits when fn returns nil.
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

// ===== SHARED FILTER STRUCTS =====

// QuestionFilters are exact-match filters plus a content substring search.
// Zero values are ignored.
type QuestionFilters struct {
	SubjectID    *uint                `json:"subject_id"`
	TopicID      *uint                `json:"topic_id"`
	Difficulty   string               `json:"difficulty"`
	QuestionType *models.QuestionType `json:"question_type"`
	Search       string               `json:"search"`
}

// ===== SHARED STATISTICS STRUCTS =====

// ScoreStats is the SQL aggregate over test_attempts.score. Aggregates over
// NULL scores are nil.
type ScoreStats struct {
	AverageScore  *float64
	HighestScore  *float64
	LowestScore   *float64
	TotalAttempts int64
}
