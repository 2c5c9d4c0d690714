package events

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of notification events
type EventType string

const (
	// Identity events, consumed by the mailer
	EventEmailVerificationRequested EventType = "user.email_verification_requested"
	EventPasswordResetRequested     EventType = "user.password_reset_requested"

	// Test lifecycle events
	EventTestAssigned     EventType = "test.assigned"
	EventAttemptSubmitted EventType = "attempt.submitted"
)

const (
	eventSource  = "exam-service"
	eventVersion = "1.0"
)

// NotificationEvent is the base event structure for all notification events
type NotificationEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// EmailLinkEvent carries a single-use token and the link that embeds it.
// Used for both verification and password reset mails.
type EmailLinkEvent struct {
	UserID    uint      `json:"user_id"`
	Email     string    `json:"email"`
	Token     string    `json:"token"`
	Link      string    `json:"link"`
	ExpiresAt time.Time `json:"expires_at"`
}

type TestAssignedEvent struct {
	TestID     uint       `json:"test_id"`
	TestName   string     `json:"test_name"`
	UserIDs    []uint     `json:"user_ids"`
	StartTime  *time.Time `json:"start_time,omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty"`
	AssignedBy uint       `json:"assigned_by"`
}

type AttemptSubmittedEvent struct {
	AttemptID   uint      `json:"attempt_id"`
	TestID      uint      `json:"test_id"`
	UserID      uint      `json:"user_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Event factory functions

func NewEmailVerificationEvent(userID uint, email, token, link string, expiresAt time.Time) *NotificationEvent {
	return newEvent(EventEmailVerificationRequested, EmailLinkEvent{
		UserID:    userID,
		Email:     email,
		Token:     token,
		Link:      link,
		ExpiresAt: expiresAt,
	})
}

func NewPasswordResetEvent(userID uint, email, token, link string, expiresAt time.Time) *NotificationEvent {
	return newEvent(EventPasswordResetRequested, EmailLinkEvent{
		UserID:    userID,
		Email:     email,
		Token:     token,
		Link:      link,
		ExpiresAt: expiresAt,
	})
}

func NewTestAssignedEvent(testID uint, testName string, userIDs []uint, start, end *time.Time, assignedBy uint) *NotificationEvent {
	return newEvent(EventTestAssigned, TestAssignedEvent{
		TestID:     testID,
		TestName:   testName,
		UserIDs:    userIDs,
		StartTime:  start,
		EndTime:    end,
		AssignedBy: assignedBy,
	})
}

func NewAttemptSubmittedEvent(attemptID, testID, userID uint, submittedAt time.Time) *NotificationEvent {
	return newEvent(EventAttemptSubmitted, AttemptSubmittedEvent{
		AttemptID:   attemptID,
		TestID:      testID,
		UserID:      userID,
		SubmittedAt: submittedAt,
	})
}

func newEvent(eventType EventType, data interface{}) *NotificationEvent {
	return &NotificationEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    eventSource,
		Version:   eventVersion,
		Data:      data,
	}
}

// PartitionKey groups events by the entity they concern
func (e *NotificationEvent) PartitionKey() string {
	switch data := e.Data.(type) {
	case EmailLinkEvent:
		return fmt.Sprintf("user-%d", data.UserID)
	case TestAssignedEvent:
		return fmt.Sprintf("test-%d", data.TestID)
	case AttemptSubmittedEvent:
		return fmt.Sprintf("test-%d", data.TestID)
	default:
		return e.ID
	}
}
