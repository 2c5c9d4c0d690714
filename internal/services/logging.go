package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// ServiceLogger logs the outcome of service operations at a level chosen
// from the error class, so expected client errors do not show up as errors.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger, service string) *ServiceLogger {
	return &ServiceLogger{
		logger: logger.With("service", service),
	}
}

// ===== OPERATION LOGGING =====

func (l *ServiceLogger) LogOperation(ctx context.Context, operation string, userID uint, resourceID uint, resourceType string, duration time.Duration, err error) {
	level := slog.LevelInfo
	status := "success"

	if err != nil {
		level = slog.LevelError
		status = "error"

		switch {
		case IsValidation(err):
			level = slog.LevelWarn
			status = "validation_error"
		case IsUnauthorized(err):
			level = slog.LevelWarn
			status = "unauthorized"
		case IsConflict(err):
			level = slog.LevelWarn
			status = "conflict"
		case IsNotFound(err):
			status = "not_found"
		}
	}

	attrs := []slog.Attr{
		slog.String("operation", operation),
		slog.Uint64("user_id", uint64(userID)),
		slog.Uint64("resource_id", uint64(resourceID)),
		slog.String("resource_type", resourceType),
		slog.String("status", status),
		slog.Duration("duration", duration),
	}

	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))

		var validationErr ValidationErrors
		if errors.As(err, &validationErr) {
			attrs = append(attrs, slog.Int("validation_errors_count", len(validationErr)))
		}
	}

	l.logger.LogAttrs(ctx, level, fmt.Sprintf("%s operation %s", operation, status), attrs...)
}

// ===== SECURITY LOGGING =====

type SecurityEventType string

const (
	SecurityEventFailedLogin     SecurityEventType = "failed_login"
	SecurityEventUnverifiedLogin SecurityEventType = "unverified_login"
	SecurityEventInvalidToken    SecurityEventType = "invalid_token"
	SecurityEventPasswordReset   SecurityEventType = "password_reset"
)

type SecurityEvent struct {
	Type        SecurityEventType
	UserID      uint
	Email       string
	Description string
}

func (l *ServiceLogger) LogSecurityEvent(ctx context.Context, event SecurityEvent) {
	attrs := []slog.Attr{
		slog.String("security_event", string(event.Type)),
		slog.String("description", event.Description),
		slog.Time("timestamp", time.Now()),
	}
	if event.UserID != 0 {
		attrs = append(attrs, slog.Uint64("user_id", uint64(event.UserID)))
	}
	if event.Email != "" {
		attrs = append(attrs, slog.String("email", event.Email))
	}

	l.logger.LogAttrs(ctx, slog.LevelWarn, fmt.Sprintf("Security: %s", event.Description), attrs...)
}

// ===== CONTEXTUAL LOGGING =====

// ContextualLogger times one operation and logs its result
type ContextualLogger struct {
	logger    *ServiceLogger
	operation string
	userID    uint
	startTime time.Time
	ctx       context.Context
}

func (l *ServiceLogger) WithOperation(ctx context.Context, operation string, userID uint) *ContextualLogger {
	return &ContextualLogger{
		logger:    l,
		operation: operation,
		userID:    userID,
		startTime: time.Now(),
		ctx:       ctx,
	}
}

func (cl *ContextualLogger) LogResult(resourceID uint, resourceType string, err error) {
	cl.logger.LogOperation(cl.ctx, cl.operation, cl.userID, resourceID, resourceType, time.Since(cl.startTime), err)
}
