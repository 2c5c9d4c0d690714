package models

import (
	"time"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

// ValidRoles lists the roles accepted at registration.
var ValidRoles = []UserRole{RoleStudent, RoleTeacher, RoleAdmin}

type User struct {
	ID              uint     `json:"id" gorm:"primaryKey"`
	Email           string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Name            *string  `json:"name" gorm:"size:100"`
	PasswordHash    string   `json:"-" gorm:"not null;size:255"`
	Role            UserRole `json:"role" gorm:"not null;size:20;index"`
	IsEmailVerified bool     `json:"is_email_verified" gorm:"default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// PasswordReset is a single-use reset token. Rows are deleted when consumed;
// expired rows are never cleaned up.
type PasswordReset struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	ResetToken string    `json:"-" gorm:"uniqueIndex;not null;size:128"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PasswordReset) TableName() string {
	return "password_resets"
}

// EmailVerification backs verification tokens when no Redis store is configured.
type EmailVerification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	Token     string    `json:"-" gorm:"uniqueIndex;not null;size:128"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (EmailVerification) TableName() string {
	return "email_verifications"
}
