package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"gorm.io/datatypes"
)

// AttemptService tracks assignments and the single attempt each user may
// submit per test
type AttemptService interface {
	Assign(ctx context.Context, testID uint, req *AssignTestRequest, assignedBy uint) error
	// Submit records the attempt. A second submission for the same test and
	// user fails with ErrAlreadyAttempted, including under concurrent calls.
	Submit(ctx context.Context, testID uint, req *SubmitAttemptRequest, userID uint) (*models.TestAttempt, error)
	GetAttempt(ctx context.Context, testID, userID uint) (*models.TestAttempt, error)
	GetResults(ctx context.Context, testID uint, principal Principal) ([]*models.TestAttempt, error)
}

type attemptService struct {
	repo      repositories.Repository
	notifier  NotificationEventService
	logger    *slog.Logger
	audit     *ServiceLogger
	validator *validator.Validator
}

func NewAttemptService(repo repositories.Repository, notifier NotificationEventService, logger *slog.Logger, validator *validator.Validator) AttemptService {
	return &attemptService{
		repo:      repo,
		notifier:  notifier,
		logger:    logger,
		audit:     NewServiceLogger(logger, "attempt"),
		validator: validator,
	}
}

func (s *attemptService) Assign(ctx context.Context, testID uint, req *AssignTestRequest, assignedBy uint) (err error) {
	op := s.audit.WithOperation(ctx, "assign_test", assignedBy)
	defer func() { op.LogResult(testID, "test", err) }()

	if err := s.validator.ValidateStruct(req); err != nil {
		return err
	}
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return err
	}

	var test *models.Test
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		t, err := tx.Test().GetByID(ctx, testID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTestNotFound
			}
			return fmt.Errorf("failed to get test: %w", err)
		}
		test = t

		assignments := make([]*models.TestAssignment, 0, len(req.UserIDs))
		for _, userID := range req.UserIDs {
			assignments = append(assignments, &models.TestAssignment{
				TestID:       testID,
				UserID:       userID,
				StartTime:    req.StartTime,
				EndTime:      req.EndTime,
				AttemptLimit: req.AttemptLimit,
			})
		}
		if err := tx.Assignment().CreateBatch(ctx, assignments); err != nil {
			return fmt.Errorf("failed to create assignments: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.NotifyTestAssigned(ctx, test, req.UserIDs, req.StartTime, req.EndTime, assignedBy)
	return nil
}

func (s *attemptService) Submit(ctx context.Context, testID uint, req *SubmitAttemptRequest, userID uint) (attempt *models.TestAttempt, err error) {
	op := s.audit.WithOperation(ctx, "submit_attempt", userID)
	defer func() { op.LogResult(testID, "test", err) }()

	if _, err := s.repo.Test().GetByID(ctx, testID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	answers := datatypes.JSON("[]")
	if len(req.Answers) > 0 {
		answers = datatypes.JSON(req.Answers)
	}

	now := time.Now()
	attempt = &models.TestAttempt{
		TestID:      testID,
		UserID:      userID,
		StartedAt:   now,
		SubmittedAt: &now,
		Answers:     answers,
	}

	// The unique index on (test_id, user_id) decides between racing submissions
	if err := s.repo.Attempt().Create(ctx, attempt); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyAttempted
		}
		return nil, fmt.Errorf("failed to create attempt: %w", err)
	}

	s.notifier.NotifyAttemptSubmitted(ctx, attempt)
	return attempt, nil
}

func (s *attemptService) GetAttempt(ctx context.Context, testID, userID uint) (*models.TestAttempt, error) {
	attempt, err := s.repo.Attempt().GetByTestAndUser(ctx, testID, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to get attempt: %w", err)
	}
	return attempt, nil
}

func (s *attemptService) GetResults(ctx context.Context, testID uint, principal Principal) ([]*models.TestAttempt, error) {
	if _, err := s.repo.Test().GetByID(ctx, testID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	var (
		attempts []*models.TestAttempt
		err      error
	)
	if principal.Can(models.CapViewAllResults) {
		attempts, err = s.repo.Attempt().ListByTest(ctx, testID)
	} else {
		attempts, err = s.repo.Attempt().ListByTestAndUser(ctx, testID, principal.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	if attempts == nil {
		attempts = []*models.TestAttempt{}
	}
	return attempts, nil
}
