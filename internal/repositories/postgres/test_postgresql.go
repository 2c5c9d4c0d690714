package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type TestPostgreSQL struct {
	db *gorm.DB
}

func NewTestPostgreSQL(db *gorm.DB) repositories.TestRepository {
	return &TestPostgreSQL{db: db}
}

func (t *TestPostgreSQL) Create(ctx context.Context, test *models.Test, questionIDs []uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(test).Error; err != nil {
			return err
		}
		return insertLinks(tx, test.ID, questionIDs)
	})
}

func (t *TestPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Test, error) {
	var test models.Test
	if err := t.db.WithContext(ctx).First(&test, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &test, nil
}

func (t *TestPostgreSQL) List(ctx context.Context) ([]*models.Test, error) {
	var tests []*models.Test
	if err := t.db.WithContext(ctx).Order("id ASC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (t *TestPostgreSQL) ListAssignedTo(ctx context.Context, userID uint) ([]*models.Test, error) {
	var tests []*models.Test
	if err := t.db.WithContext(ctx).
		Model(&models.Test{}).
		Joins("JOIN test_assignments ON test_assignments.test_id = tests.id").
		Where("test_assignments.user_id = ?", userID).
		Order("test_assignments.id ASC").
		Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (t *TestPostgreSQL) UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error {
	result := t.db.WithContext(ctx).Model(&models.Test{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

func (t *TestPostgreSQL) ReplaceQuestions(ctx context.Context, testID uint, questionIDs []uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", testID).Delete(&models.TestQuestion{}).Error; err != nil {
			return err
		}
		return insertLinks(tx, testID, questionIDs)
	})
}

func (t *TestPostgreSQL) GetQuestionLinks(ctx context.Context, testID uint) ([]*models.TestQuestion, error) {
	var links []*models.TestQuestion
	if err := t.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (t *TestPostgreSQL) Delete(ctx context.Context, id uint) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("test_id = ?", id).Delete(&models.TestQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("test_id = ?", id).Delete(&models.TestAssignment{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Test{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
}

// insertLinks keeps the given order, which is the order questions are served in
func insertLinks(tx *gorm.DB, testID uint, questionIDs []uint) error {
	if len(questionIDs) == 0 {
		return nil
	}

	links := make([]models.TestQuestion, len(questionIDs))
	for i, qid := range questionIDs {
		links[i] = models.TestQuestion{TestID: testID, QuestionID: qid}
	}
	return tx.Create(&links).Error
}

type AssignmentPostgreSQL struct {
	db *gorm.DB
}

func NewAssignmentPostgreSQL(db *gorm.DB) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db}
}

func (a *AssignmentPostgreSQL) CreateBatch(ctx context.Context, assignments []*models.TestAssignment) error {
	if len(assignments) == 0 {
		return nil
	}
	return a.db.WithContext(ctx).Create(&assignments).Error
}

func (a *AssignmentPostgreSQL) ListByTest(ctx context.Context, testID uint) ([]*models.TestAssignment, error) {
	var assignments []*models.TestAssignment
	if err := a.db.WithContext(ctx).
		Where("test_id = ?", testID).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		return nil, err
	}
	return assignments, nil
}
