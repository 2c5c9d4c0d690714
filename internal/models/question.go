package models

import (
	"time"
)

type QuestionType string

const (
	QuestionMCQSingle   QuestionType = "mcq_single"
	QuestionMCQMultiple QuestionType = "mcq_multiple"
	QuestionTrueFalse   QuestionType = "true_false"
	QuestionShortAnswer QuestionType = "short_answer"
	QuestionFillBlank   QuestionType = "fill_blank"
)

var QuestionTypes = []QuestionType{
	QuestionMCQSingle,
	QuestionMCQMultiple,
	QuestionTrueFalse,
	QuestionShortAnswer,
	QuestionFillBlank,
}

type Subject struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

type Topic struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SubjectID uint      `json:"subject_id" gorm:"not null;index"`
	Name      string    `json:"name" gorm:"not null;size:100"`
	CreatedAt time.Time `json:"created_at"`
}

func (Topic) TableName() string {
	return "topics"
}

type Question struct {
	ID           uint         `json:"id" gorm:"primaryKey"`
	SubjectID    uint         `json:"subject_id" gorm:"not null;index"`
	TopicID      uint         `json:"topic_id" gorm:"not null;index"`
	QuestionType QuestionType `json:"question_type" gorm:"not null;size:30;index"`
	Content      string       `json:"content" gorm:"type:text;not null"`
	Difficulty   string       `json:"difficulty" gorm:"size:30;index"`
	Explanation  string       `json:"explanation" gorm:"type:text"`
	CreatedBy    uint         `json:"created_by" gorm:"not null;index"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Options []QuestionOption `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}

func (Question) TableName() string {
	return "questions"
}

type QuestionOption struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"-" gorm:"not null;index"`
	OptionText string `json:"option_text" gorm:"type:text;not null"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
