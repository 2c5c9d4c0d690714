package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
)

// AnalyticsService aggregates attempt scores per test. Attempts are never
// scored, so score aggregates stay null and the breakdowns stay empty.
type AnalyticsService interface {
	GetTestAnalytics(ctx context.Context, testID uint) (*models.TestAnalytics, error)
}

type analyticsService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewAnalyticsService(repo repositories.Repository, logger *slog.Logger) AnalyticsService {
	return &analyticsService{
		repo:   repo,
		logger: logger,
	}
}

func (s *analyticsService) GetTestAnalytics(ctx context.Context, testID uint) (*models.TestAnalytics, error) {
	s.logger.Info("Computing test analytics", "test_id", testID)

	if _, err := s.repo.Test().GetByID(ctx, testID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, fmt.Errorf("failed to get test: %w", err)
	}

	stats, err := s.repo.Attempt().GetScoreStats(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate scores: %w", err)
	}

	return &models.TestAnalytics{
		TestID:        testID,
		AverageScore:  stats.AverageScore,
		HighestScore:  stats.HighestScore,
		LowestScore:   stats.LowestScore,
		TotalAttempts: stats.TotalAttempts,
		QuestionStats: []interface{}{},
		TopicStats:    []interface{}{},
	}, nil
}
