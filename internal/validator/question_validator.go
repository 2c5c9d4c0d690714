package validator

import (
	"fmt"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
)

// QuestionValidator handles rules that depend on the question type
type QuestionValidator struct{}

// NewQuestionValidator creates a new question validator
func NewQuestionValidator() *QuestionValidator {
	return &QuestionValidator{}
}

// ValidateOptions checks an option set against the question type. Options
// without a correct answer are accepted; bulk uploads create them that way.
func (v *QuestionValidator) ValidateOptions(questionType models.QuestionType, options []models.QuestionOption) error {
	correct := 0
	for i, option := range options {
		if strings.TrimSpace(option.OptionText) == "" {
			return fmt.Errorf("option %d text cannot be empty", i+1)
		}
		if option.IsCorrect {
			correct++
		}
	}

	switch questionType {
	case models.QuestionMCQSingle:
		if correct > 1 {
			return fmt.Errorf("single choice question cannot have %d correct options", correct)
		}
	case models.QuestionTrueFalse:
		if len(options) > 2 {
			return fmt.Errorf("true/false question cannot have more than 2 options")
		}
		if correct > 1 {
			return fmt.Errorf("true/false question cannot have %d correct options", correct)
		}
	}

	return nil
}

// ValidateQuestion validates the scalar fields and options of a question
func (v *QuestionValidator) ValidateQuestion(question *models.Question) error {
	if strings.TrimSpace(question.Content) == "" {
		return fmt.Errorf("question content is required")
	}
	if question.SubjectID == 0 {
		return fmt.Errorf("subject_id is required")
	}
	if question.TopicID == 0 {
		return fmt.Errorf("topic_id is required")
	}

	valid := false
	for _, t := range models.QuestionTypes {
		if t == question.QuestionType {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unsupported question type: %q", question.QuestionType)
	}

	return v.ValidateOptions(question.QuestionType, question.Options)
}
