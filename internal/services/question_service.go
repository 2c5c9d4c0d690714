package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// QuestionService manages the question bank
type QuestionService interface {
	Create(ctx context.Context, req *QuestionRequest, creatorID uint) (*models.Question, error)
	GetByID(ctx context.Context, id uint) (*models.Question, error)
	List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error)
	Update(ctx context.Context, id uint, req *QuestionRequest) (*models.Question, error)
	// Delete refuses questions that a test still links
	Delete(ctx context.Context, id uint) error
}

type questionService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewQuestionService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) QuestionService {
	return &questionService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *questionService) Create(ctx context.Context, req *QuestionRequest, creatorID uint) (*models.Question, error) {
	s.logger.Info("Creating question", "creator_id", creatorID, "type", req.QuestionType)

	question, err := buildQuestion(s.validator, req)
	if err != nil {
		return nil, err
	}
	question.CreatedBy = creatorID

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if err := checkQuestionReferences(ctx, tx, question.SubjectID, question.TopicID); err != nil {
			return err
		}
		if err := tx.Question().Create(ctx, question); err != nil {
			return fmt.Errorf("failed to create question: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Question created", "question_id", question.ID, "options", len(question.Options))
	return question, nil
}

func (s *questionService) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	question, err := s.repo.Question().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return question, nil
}

func (s *questionService) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	questions, err := s.repo.Question().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	return questions, nil
}

func (s *questionService) Update(ctx context.Context, id uint, req *QuestionRequest) (*models.Question, error) {
	s.logger.Info("Updating question", "question_id", id)

	question, err := buildQuestion(s.validator, req)
	if err != nil {
		return nil, err
	}
	question.ID = id

	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Question().GetByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to get question: %w", err)
		}
		if err := checkQuestionReferences(ctx, tx, question.SubjectID, question.TopicID); err != nil {
			return err
		}

		if err := tx.Question().Update(ctx, question); err != nil {
			return fmt.Errorf("failed to update question: %w", err)
		}
		if err := tx.Question().ReplaceOptions(ctx, id, question.Options); err != nil {
			return fmt.Errorf("failed to replace options: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetByID(ctx, id)
}

func (s *questionService) Delete(ctx context.Context, id uint) error {
	err := s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.Question().GetByID(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrQuestionNotFound
			}
			return fmt.Errorf("failed to get question: %w", err)
		}

		used, err := tx.Question().IsUsedInTests(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check question usage: %w", err)
		}
		if used {
			return ErrQuestionInUse
		}

		if err := tx.Question().Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete question: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Question deleted", "question_id", id)
	return nil
}

// buildQuestion validates the request and maps it onto a model
func buildQuestion(v *validator.Validator, req *QuestionRequest) (*models.Question, error) {
	req.Content = strings.TrimSpace(req.Content)
	if err := v.ValidateStruct(req); err != nil {
		return nil, err
	}

	question := &models.Question{
		SubjectID:    req.SubjectID,
		TopicID:      req.TopicID,
		QuestionType: req.QuestionType,
		Content:      req.Content,
		Difficulty:   strings.TrimSpace(req.Difficulty),
		Explanation:  req.Explanation,
		Options:      make([]models.QuestionOption, 0, len(req.Options)),
	}
	for _, opt := range req.Options {
		question.Options = append(question.Options, models.QuestionOption{
			OptionText: strings.TrimSpace(opt.OptionText),
			IsCorrect:  opt.IsCorrect,
		})
	}

	if err := v.Question().ValidateQuestion(question); err != nil {
		return nil, NewInputError(err.Error())
	}
	return question, nil
}

// checkQuestionReferences requires an existing subject and a topic filed under it
func checkQuestionReferences(ctx context.Context, repo repositories.Repository, subjectID, topicID uint) error {
	if _, err := repo.Subject().GetSubject(ctx, subjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewInputError(fmt.Sprintf("invalid subject reference: %d", subjectID))
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}

	topic, err := repo.Subject().GetTopic(ctx, topicID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return NewInputError(fmt.Sprintf("invalid topic reference: %d", topicID))
		}
		return fmt.Errorf("failed to get topic: %w", err)
	}
	if topic.SubjectID != subjectID {
		return NewInputError(fmt.Sprintf("topic %d does not belong to subject %d", topicID, subjectID))
	}
	return nil
}
