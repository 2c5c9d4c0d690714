package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/models"
)

// NotificationEventService publishes notification events for the mailer and
// other consumers. A failed publish is logged and swallowed: the request that
// triggered it has already committed.
type NotificationEventService interface {
	// Identity notifications
	NotifyEmailVerification(ctx context.Context, user *models.User, token, link string, expiresAt time.Time)
	NotifyPasswordReset(ctx context.Context, user *models.User, token, link string, expiresAt time.Time)

	// Test lifecycle notifications
	NotifyTestAssigned(ctx context.Context, test *models.Test, userIDs []uint, start, end *time.Time, assignedBy uint)
	NotifyAttemptSubmitted(ctx context.Context, attempt *models.TestAttempt)
}

type notificationEventService struct {
	eventPublisher events.EventPublisher
	logger         *slog.Logger
}

func NewNotificationEventService(eventPublisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		eventPublisher: eventPublisher,
		logger:         logger,
	}
}

// ===== IDENTITY NOTIFICATIONS =====

func (s *notificationEventService) NotifyEmailVerification(ctx context.Context, user *models.User, token, link string, expiresAt time.Time) {
	s.logger.Info("Publishing email verification event", "user_id", user.ID)
	s.publish(ctx, events.NewEmailVerificationEvent(user.ID, user.Email, token, link, expiresAt))
}

func (s *notificationEventService) NotifyPasswordReset(ctx context.Context, user *models.User, token, link string, expiresAt time.Time) {
	s.logger.Info("Publishing password reset event", "user_id", user.ID)
	s.publish(ctx, events.NewPasswordResetEvent(user.ID, user.Email, token, link, expiresAt))
}

// ===== TEST LIFECYCLE NOTIFICATIONS =====

func (s *notificationEventService) NotifyTestAssigned(ctx context.Context, test *models.Test, userIDs []uint, start, end *time.Time, assignedBy uint) {
	s.logger.Info("Publishing test assigned event",
		"test_id", test.ID,
		"user_count", len(userIDs))
	s.publish(ctx, events.NewTestAssignedEvent(test.ID, test.Name, userIDs, start, end, assignedBy))
}

func (s *notificationEventService) NotifyAttemptSubmitted(ctx context.Context, attempt *models.TestAttempt) {
	s.logger.Info("Publishing attempt submitted event", "attempt_id", attempt.ID)

	submittedAt := attempt.StartedAt
	if attempt.SubmittedAt != nil {
		submittedAt = *attempt.SubmittedAt
	}
	s.publish(ctx, events.NewAttemptSubmittedEvent(attempt.ID, attempt.TestID, attempt.UserID, submittedAt))
}

func (s *notificationEventService) publish(ctx context.Context, event *events.NotificationEvent) {
	if s.eventPublisher == nil {
		s.logger.Warn("No event publisher configured, dropping event", "event_type", event.Type)
		return
	}
	if err := s.eventPublisher.PublishNotificationEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish notification event",
			"event_id", event.ID,
			"event_type", event.Type,
			"error", err)
	}
}
