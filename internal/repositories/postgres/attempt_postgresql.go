package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type AttemptPostgreSQL struct {
	db *gorm.DB
}

func NewAttemptPostgreSQL(db *gorm.DB) repositories.AttemptRepository {
	return &AttemptPostgreSQL{db: db}
}

func (a *AttemptPostgreSQL) Create(ctx context.Context, attempt *models.TestAttempt) error {
	return translateError(a.db.WithContext(ctx).Create(attempt).Error)
}

func (a *AttemptPostgreSQL) GetByTestAndUser(ctx context.Context, testID, userID uint) (*models.TestAttempt, error) {
	var attempt models.TestAttempt
	if err := a.db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("id ASC").
		First(&attempt).Error; err != nil {
		return nil, translateError(err)
	}
	return &attempt, nil
}

func (a *AttemptPostgreSQL) ListByTest(ctx context.Context, testID uint) ([]*models.TestAttempt, error) {
	var attempts []*models.TestAttempt
	if err := a.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) ListByTestAndUser(ctx context.Context, testID, userID uint) ([]*models.TestAttempt, error) {
	var attempts []*models.TestAttempt
	if err := a.db.WithContext(ctx).
		Where("test_id = ? AND user_id = ?", testID, userID).
		Order("id ASC").
		Find(&attempts).Error; err != nil {
		return nil, err
	}
	return attempts, nil
}

func (a *AttemptPostgreSQL) GetScoreStats(ctx context.Context, testID uint) (*repositories.ScoreStats, error) {
	var stats repositories.ScoreStats
	if err := a.db.WithContext(ctx).
		Model(&models.TestAttempt{}).
		Select("AVG(score) AS average_score, MAX(score) AS highest_score, MIN(score) AS lowest_score, COUNT(*) AS total_attempts").
		Where("test_id = ?", testID).
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
