package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type QuestionPostgreSQL struct {
	db *gorm.DB
}

func NewQuestionPostgreSQL(db *gorm.DB) repositories.QuestionRepository {
	return &QuestionPostgreSQL{db: db}
}

func (q *QuestionPostgreSQL) Create(ctx context.Context, question *models.Question) error {
	return translateError(q.db.WithContext(ctx).Create(question).Error)
}

func (q *QuestionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Question, error) {
	var question models.Question
	if err := q.db.WithContext(ctx).
		Preload("Options", orderByID).
		First(&question, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &question, nil
}

func (q *QuestionPostgreSQL) List(ctx context.Context, filters repositories.QuestionFilters) ([]*models.Question, error) {
	var questions []*models.Question

	query := q.db.WithContext(ctx).Model(&models.Question{})
	query = q.applyFilters(query, filters)

	if err := query.Preload("Options", orderByID).Order("id ASC").Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) Update(ctx context.Context, question *models.Question) error {
	result := q.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", question.ID).
		Updates(map[string]interface{}{
			"subject_id":    question.SubjectID,
			"topic_id":      question.TopicID,
			"question_type": question.QuestionType,
			"content":       question.Content,
			"difficulty":    question.Difficulty,
			"explanation":   question.Explanation,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) ReplaceOptions(ctx context.Context, questionID uint, options []models.QuestionOption) error {
	db := q.db.WithContext(ctx)
	if err := db.Where("question_id = ?", questionID).Delete(&models.QuestionOption{}).Error; err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}

	rows := make([]models.QuestionOption, len(options))
	for i, opt := range options {
		rows[i] = models.QuestionOption{
			QuestionID: questionID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
		}
	}
	return db.Create(&rows).Error
}

func (q *QuestionPostgreSQL) Delete(ctx context.Context, id uint) error {
	db := q.db.WithContext(ctx)
	if err := db.Where("question_id = ?", id).Delete(&models.QuestionOption{}).Error; err != nil {
		return err
	}

	result := db.Delete(&models.Question{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (q *QuestionPostgreSQL) GetByTest(ctx context.Context, testID uint, withOptions bool) ([]*models.Question, error) {
	var questions []*models.Question

	query := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Joins("JOIN test_questions ON test_questions.question_id = questions.id").
		Where("test_questions.test_id = ?", testID).
		Order("test_questions.id ASC")
	if withOptions {
		query = query.Preload("Options", orderByID)
	}

	if err := query.Find(&questions).Error; err != nil {
		return nil, err
	}
	return questions, nil
}

func (q *QuestionPostgreSQL) ExistingIDs(ctx context.Context, ids []uint) ([]uint, error) {
	existing := []uint{}
	if len(ids) == 0 {
		return existing, nil
	}

	if err := q.db.WithContext(ctx).
		Model(&models.Question{}).
		Where("id IN ?", ids).
		Pluck("id", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

func (q *QuestionPostgreSQL) IsUsedInTests(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := q.db.WithContext(ctx).
		Model(&models.TestQuestion{}).
		Where("question_id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (q *QuestionPostgreSQL) applyFilters(query *gorm.DB, filters repositories.QuestionFilters) *gorm.DB {
	if filters.SubjectID != nil {
		query = query.Where("subject_id = ?", *filters.SubjectID)
	}
	if filters.TopicID != nil {
		query = query.Where("topic_id = ?", *filters.TopicID)
	}
	if filters.Difficulty != "" {
		query = query.Where("difficulty = ?", filters.Difficulty)
	}
	if filters.QuestionType != nil {
		query = query.Where("question_type = ?", *filters.QuestionType)
	}
	if filters.Search != "" {
		query = query.Where("content LIKE ?", "%"+filters.Search+"%")
	}
	return query
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
