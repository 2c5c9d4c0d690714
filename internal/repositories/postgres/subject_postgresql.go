package postgres

import (
	"context"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

type SubjectPostgreSQL struct {
	db *gorm.DB
}

func NewSubjectPostgreSQL(db *gorm.DB) repositories.SubjectRepository {
	return &SubjectPostgreSQL{db: db}
}

func (s *SubjectPostgreSQL) CreateSubject(ctx context.Context, subject *models.Subject) error {
	return translateError(s.db.WithContext(ctx).Create(subject).Error)
}

func (s *SubjectPostgreSQL) GetSubject(ctx context.Context, id uint) (*models.Subject, error) {
	var subject models.Subject
	if err := s.db.WithContext(ctx).First(&subject, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &subject, nil
}

func (s *SubjectPostgreSQL) ListSubjects(ctx context.Context) ([]*models.Subject, error) {
	var subjects []*models.Subject
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error; err != nil {
		return nil, err
	}
	return subjects, nil
}

func (s *SubjectPostgreSQL) CreateTopic(ctx context.Context, topic *models.Topic) error {
	return translateError(s.db.WithContext(ctx).Create(topic).Error)
}

func (s *SubjectPostgreSQL) GetTopic(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	if err := s.db.WithContext(ctx).First(&topic, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &topic, nil
}

func (s *SubjectPostgreSQL) ListTopics(ctx context.Context, subjectID uint) ([]*models.Topic, error) {
	var topics []*models.Topic
	if err := s.db.WithContext(ctx).
		Where("subject_id = ?", subjectID).
		Order("name ASC").
		Find(&topics).Error; err != nil {
		return nil, err
	}
	return topics, nil
}
