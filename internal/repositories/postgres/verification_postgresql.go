package postgres

import (
	"context"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"gorm.io/gorm"
)

// VerificationTokenPostgreSQL keeps email verification tokens in the
// email_verifications table. Used when Redis is not configured.
type VerificationTokenPostgreSQL struct {
	db *gorm.DB
}

func NewVerificationTokenPostgreSQL(db *gorm.DB) *VerificationTokenPostgreSQL {
	return &VerificationTokenPostgreSQL{db: db}
}

func (v *VerificationTokenPostgreSQL) Save(ctx context.Context, token string, userID uint, ttl time.Duration) error {
	return translateError(v.db.WithContext(ctx).Create(&models.EmailVerification{
		UserID:    userID,
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}).Error)
}

// Consume deletes the token row and returns its user. Expired tokens are
// deleted too but reported as ErrNotFound.
func (v *VerificationTokenPostgreSQL) Consume(ctx context.Context, token string) (uint, error) {
	var row models.EmailVerification
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&row).Error; err != nil {
			return translateError(err)
		}

		result := tx.Delete(&models.EmailVerification{}, row.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return repositories.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if time.Now().After(row.ExpiresAt) {
		return 0, repositories.ErrNotFound
	}
	return row.UserID, nil
}
