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

// SubjectService manages the subject and topic catalog questions are filed under
type SubjectService interface {
	CreateSubject(ctx context.Context, req *SubjectRequest) (*models.Subject, error)
	ListSubjects(ctx context.Context) ([]*models.Subject, error)
	CreateTopic(ctx context.Context, subjectID uint, req *TopicRequest) (*models.Topic, error)
	ListTopics(ctx context.Context, subjectID uint) ([]*models.Topic, error)
}

type subjectService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
}

func NewSubjectService(repo repositories.Repository, logger *slog.Logger, validator *validator.Validator) SubjectService {
	return &subjectService{
		repo:      repo,
		logger:    logger,
		validator: validator,
	}
}

func (s *subjectService) CreateSubject(ctx context.Context, req *SubjectRequest) (*models.Subject, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	subject := &models.Subject{Name: req.Name}
	if err := s.repo.Subject().CreateSubject(ctx, subject); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrSubjectExists
		}
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	s.logger.Info("Subject created", "subject_id", subject.ID, "name", subject.Name)
	return subject, nil
}

func (s *subjectService) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	subjects, err := s.repo.Subject().ListSubjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	if subjects == nil {
		subjects = []*models.Subject{}
	}
	return subjects, nil
}

func (s *subjectService) CreateTopic(ctx context.Context, subjectID uint, req *TopicRequest) (*models.Topic, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	topic := &models.Topic{SubjectID: subjectID, Name: req.Name}
	if err := s.repo.Subject().CreateTopic(ctx, topic); err != nil {
		return nil, fmt.Errorf("failed to create topic: %w", err)
	}

	s.logger.Info("Topic created", "topic_id", topic.ID, "subject_id", subjectID)
	return topic, nil
}

func (s *subjectService) ListTopics(ctx context.Context, subjectID uint) ([]*models.Topic, error) {
	if err := s.ensureSubject(ctx, subjectID); err != nil {
		return nil, err
	}

	topics, err := s.repo.Subject().ListTopics(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	if topics == nil {
		topics = []*models.Topic{}
	}
	return topics, nil
}

func (s *subjectService) ensureSubject(ctx context.Context, subjectID uint) error {
	if _, err := s.repo.Subject().GetSubject(ctx, subjectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to get subject: %w", err)
	}
	return nil
}
