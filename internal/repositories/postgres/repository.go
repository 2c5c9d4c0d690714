package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// Repository is the gorm-backed repositories.Repository. The same code
// serves postgres, mysql and sqlite connections.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{db: db}
}

func (r *Repository) User() repositories.UserRepository {
	return NewUserPostgreSQL(r.db)
}

func (r *Repository) PasswordReset() repositories.PasswordResetRepository {
	return NewPasswordResetPostgreSQL(r.db)
}

func (r *Repository) Subject() repositories.SubjectRepository {
	return NewSubjectPostgreSQL(r.db)
}

func (r *Repository) Question() repositories.QuestionRepository {
	return NewQuestionPostgreSQL(r.db)
}

func (r *Repository) Test() repositories.TestRepository {
	return NewTestPostgreSQL(r.db)
}

func (r *Repository) Assignment() repositories.AssignmentRepository {
	return NewAssignmentPostgreSQL(r.db)
}

func (r *Repository) Attempt() repositories.AttemptRepository {
	return NewAttemptPostgreSQL(r.db)
}

func (r *Repository) Transaction(ctx context.Context, fn func(tx repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// translateError maps driver errors onto repository sentinels
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repositories.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), isUniqueViolation(err):
		return fmt.Errorf("%w: %v", repositories.ErrDuplicate, err)
	}
	return err
}

// isUniqueViolation catches drivers whose errors gorm does not translate
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}
