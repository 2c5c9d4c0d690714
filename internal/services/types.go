package services

import (
	"encoding/json"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// Principal is the authenticated caller, passed explicitly into every
// operation that depends on who is asking.
type Principal struct {
	UserID uint
	Role   models.UserRole
}

func (p Principal) Can(capability models.Capability) bool {
	return p.Role.Can(capability)
}

// ===== IDENTITY =====

type RegisterRequest struct {
	Email    string          `json:"email" validate:"email"`
	Password string          `json:"password"`
	Role     models.UserRole `json:"role" validate:"user_role"`
	Name     *string         `json:"name" validate:"omitempty,max=100"`
}

type VerifyEmailRequest struct {
	Token string `json:"token"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

type UpdateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=100"`
	Password *string `json:"password"`
}

// ===== QUESTION BANK =====

type OptionRequest struct {
	OptionText string `json:"option_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

type QuestionRequest struct {
	SubjectID    uint                `json:"subject_id" validate:"required"`
	TopicID      uint                `json:"topic_id" validate:"required"`
	QuestionType models.QuestionType `json:"question_type" validate:"required,question_type"`
	Content      string              `json:"content" validate:"required"`
	Difficulty   string              `json:"difficulty" validate:"max=30"`
	Explanation  string              `json:"explanation"`
	Options      []OptionRequest     `json:"options" validate:"dive"`
}

type SubjectRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type TopicRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

// ===== TESTS =====

type CreateTestRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	SubjectID       *uint      `json:"subject_id"`
	Pattern         *string    `json:"pattern" validate:"omitempty,max=100"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	AttemptLimit    *int       `json:"attempt_limit" validate:"omitempty,gt=0"`
	IsPublished     bool       `json:"is_published"`
	QuestionIDs     []uint     `json:"question_ids"`
}

// UpdateTestRequest changes only the fields present in the payload.
// QuestionIDs, when present, replaces the whole question set.
type UpdateTestRequest struct {
	Name            *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Pattern         *string    `json:"pattern" validate:"omitempty,max=100"`
	DurationMinutes *int       `json:"duration_minutes" validate:"omitempty,gt=0"`
	StartTime       *time.Time `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	AttemptLimit    *int       `json:"attempt_limit" validate:"omitempty,gt=0"`
	IsPublished     *bool      `json:"is_published"`
	QuestionIDs     *[]uint    `json:"question_ids"`
}

type CreateTestResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

type AssignTestRequest struct {
	UserIDs      []uint     `json:"user_ids" validate:"required,min=1"`
	StartTime    *time.Time `json:"start_time"`
	EndTime      *time.Time `json:"end_time"`
	AttemptLimit *int       `json:"attempt_limit" validate:"omitempty,gt=0"`
}

// SubmitAttemptRequest keeps answers as the client sent them. Scoring is not
// implemented, so the payload shape is not interpreted.
type SubmitAttemptRequest struct {
	Answers json.RawMessage `json:"answers"`
}

type SubmitAttemptResponse struct {
	AttemptID uint   `json:"attempt_id"`
	Message   string `json:"message"`
}
