package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// TestService manages the test catalog and each test's question set
type TestService interface {
	Create(ctx context.Context, req *CreateTestRequest, creatorID uint) (*models.Test, error)
	// List returns every test to callers that can view all tests and only
	// assigned tests to everyone else
	List(ctx context.Context, principal Principal) ([]*models.Test, error)
	// GetByID resolves the test's questions without their options
	GetByID(ctx context.Context, id uint) (*models.Test, error)
	GetQuestions(ctx context.Context, id uint) ([]*models.Question, error)
	Update(ctx context.Context, id uint, req *UpdateTestRequest) (*models.Test, error)
	Delete(ctx context.Context, id uint) error
}

type testService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewTestService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) TestService {
	return &testService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *testService) Create(ctx context.Context, req *CreateTestRequest, creatorID uint) (*models.Test, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	s.logger.Info("Creating test", "creator_id", creatorID, "name", req.Name, "questions", len(req.QuestionIDs))

	test := &models.Test{
		Name:            req.Name,
		SubjectID:       req.SubjectID,
		Pattern:         req.Pattern,
		DurationMinutes: req.DurationMinutes,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		AttemptLimit:    req.AttemptLimit,
		IsPublished:     req.IsPublished,
		CreatedBy:       creatorID,
	}

	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if req.SubjectID != nil {
			if _, err := tx.Subject().GetSubject(ctx, *req.SubjectID); err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return NewInputError(fmt.Sprintf("invalid subject reference: %d", *req.SubjectID))
				}
				return fmt.Errorf("failed to get subject: %w", err)
			}
		}
		if err := ensureQuestionsExist(ctx, tx, req.QuestionIDs); err != nil {
			return err
		}
		if err := tx.Test().Create(ctx, test, req.QuestionIDs); err != nil {
			return fmt.Errorf("failed to create test: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Test created", "test_id", test.ID)
	return test, nil
}

func (s *testService) List(ctx context.Context, principal Principal) ([]*models.Test, error) {
	var (
		tests []*models.Test
		err   error
	)
	if principal.Can(models.CapViewAllTests) {
		tests, err = s.repo.Test().List(ctx)
	} else {
		tests, err = s.repo.Test().ListAssignedTo(ctx, principal.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list tests: %w", err)
	}
	if tests == nil {
		tests = []*models.Test{}
	}
	return tests, nil
}

func (s *testService) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	test, err := s.getTest(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().GetByTest(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get test questions: %w", err)
	}
	test.Questions = make([]models.Question, 0, len(questions))
	for _, q := range questions {
		test.Questions = append(test.Questions, *q)
	}
	return test, nil
}

func (s *testService) GetQuestions(ctx context.Context, id uint) ([]*models.Question, error) {
	if _, err := s.getTest(ctx, s.repo, id); err != nil {
		return nil, err
	}

	questions, err := s.repo.Question().GetByTest(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get test questions: %w", err)
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	return questions, nil
}

func (s *testService) Update(ctx context.Context, id uint, req *UpdateTestRequest) (*models.Test, error) {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Pattern != nil {
		fields["pattern"] = *req.Pattern
	}
	if req.DurationMinutes != nil {
		fields["duration_minutes"] = *req.DurationMinutes
	}
	if req.StartTime != nil {
		fields["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		fields["end_time"] = *req.EndTime
	}
	if req.AttemptLimit != nil {
		fields["attempt_limit"] = *req.AttemptLimit
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}

	s.logger.Info("Updating test", "test_id", id, "fields", len(fields), "replace_questions", req.QuestionIDs != nil)

	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		test, err := s.getTest(ctx, tx, id)
		if err != nil {
			return err
		}

		start, end := test.StartTime, test.EndTime
		if req.StartTime != nil {
			start = req.StartTime
		}
		if req.EndTime != nil {
			end = req.EndTime
		}
		if err := validateWindow(start, end); err != nil {
			return err
		}

		if len(fields) > 0 {
			if err := tx.Test().UpdateFields(ctx, id, fields); err != nil {
				return fmt.Errorf("failed to update test: %w", err)
			}
		}
		if req.QuestionIDs != nil {
			if err := ensureQuestionsExist(ctx, tx, *req.QuestionIDs); err != nil {
				return err
			}
			if err := tx.Test().ReplaceQuestions(ctx, id, *req.QuestionIDs); err != nil {
				return fmt.Errorf("failed to replace test questions: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *testService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Test().Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTestNotFound
		}
		return fmt.Errorf("failed to delete test: %w", err)
	}

	s.logger.Info("Test deleted", "test_id", id)
	return nil
}

func (s *testService) getTest(ctx context.Context, repo repositories.Repository, id uint) (*models.Test, error) {
	test, err := repo.Test().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}
	return test, nil
}

// ensureQuestionsExist rejects links to unknown questions. Repeated ids are
// allowed and produce repeated links.
func ensureQuestionsExist(ctx context.Context, repo repositories.Repository, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}

	existing, err := repo.Question().ExistingIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to check questions: %w", err)
	}

	found := make(map[uint]struct{}, len(existing))
	for _, id := range existing {
		found[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			return NewInputError(fmt.Sprintf("invalid question reference: %d", id))
		}
	}
	return nil
}

func validateWindow(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return NewInputError("end_time must not be before start_time")
	}
	return nil
}
