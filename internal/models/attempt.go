package models

import (
	"time"

	"gorm.io/datatypes"
)

// TestAttempt is a single submission of answers by one user for one test.
// The composite unique index enforces at most one attempt per (test, user).
type TestAttempt struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TestID      uint           `json:"test_id" gorm:"not null;uniqueIndex:idx_test_attempts_test_user,priority:1"`
	UserID      uint           `json:"user_id" gorm:"not null;uniqueIndex:idx_test_attempts_test_user,priority:2;index"`
	StartedAt   time.Time      `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time     `json:"submitted_at"`
	Answers     datatypes.JSON `json:"answers"`
	Score       *float64       `json:"score"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// AllModels lists every persisted model in migration order.
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&PasswordReset{},
		&EmailVerification{},
		&Subject{},
		&Topic{},
		&Question{},
		&QuestionOption{},
		&Test{},
		&TestQuestion{},
		&TestAssignment{},
		&TestAttempt{},
	}
}
