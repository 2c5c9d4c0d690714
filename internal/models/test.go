package models

import (
	"time"
)

type Test struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"not null;size:200"`
	SubjectID       *uint      `json:"subject_id" gorm:"index"`
	Pattern         *string    `json:"pattern" gorm:"size:100"`
	DurationMinutes *int       `json:"duration_minutes"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	AttemptLimit    *int       `json:"attempt_limit"`
	IsPublished     bool       `json:"is_published" gorm:"default:false"`
	CreatedBy       uint       `json:"created_by" gorm:"not null;index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	// Resolved on read, never persisted through the association.
	Questions []Question `json:"questions,omitempty" gorm:"-"`
}

func (Test) TableName() string {
	return "tests"
}

// TestQuestion links a question into a test. Duplicate links are allowed.
type TestQuestion struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	TestID     uint `json:"test_id" gorm:"not null;index"`
	QuestionID uint `json:"question_id" gorm:"not null;index"`
}

func (TestQuestion) TableName() string {
	return "test_questions"
}

// TestAssignment grants a user the right to take a test within a window.
// Re-assigning the same user inserts another row.
type TestAssignment struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	TestID       uint       `json:"test_id" gorm:"not null;index"`
	UserID       uint       `json:"user_id" gorm:"not null;index"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	AttemptLimit *int       `json:"attempt_limit"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (TestAssignment) TableName() string {
	return "test_assignments"
}
