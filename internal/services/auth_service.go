package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// AuthService covers registration, email verification, login and password reset
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	VerifyEmail(ctx context.Context, token string) error
	// ResendVerification reports false when the user is already verified
	ResendVerification(ctx context.Context, email string) (bool, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *ResetPasswordRequest) error
}

// VerificationTokenStore persists single-use email verification tokens.
// Consume returns repositories.ErrNotFound for unknown, expired or already
// consumed tokens.
type VerificationTokenStore interface {
	Save(ctx context.Context, token string, userID uint, ttl time.Duration) error
	Consume(ctx context.Context, token string) (uint, error)
}

type AuthConfig struct {
	JWTSecret            string
	JWTExpiry            time.Duration
	VerificationTokenTTL time.Duration
	ResetTokenTTL        time.Duration
	PublicBaseURL        string
}

type authService struct {
	repo      repositories.Repository
	tokens    VerificationTokenStore
	notifier  NotificationEventService
	config    AuthConfig
	logger    *slog.Logger
	audit     *ServiceLogger
	validator *validator.Validator
}

func NewAuthService(
	repo repositories.Repository,
	tokens VerificationTokenStore,
	notifier NotificationEventService,
	config AuthConfig,
	logger *slog.Logger,
	validator *validator.Validator,
) AuthService {
	return &authService{
		repo:      repo,
		tokens:    tokens,
		notifier:  notifier,
		config:    config,
		logger:    logger,
		audit:     NewServiceLogger(logger, "auth"),
		validator: validator,
	}
}

func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	req.Email = normalizeEmail(req.Email)
	if req.Email == "" || req.Password == "" || req.Role == "" {
		return nil, NewInputError("Missing required fields")
	}
	if err := s.validator.ValidateStruct(req); err != nil {
		return nil, err
	}

	s.logger.Info("Registering user", "email", req.Email, "role", req.Role)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := s.repo.User().Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The user is committed at this point; a lost token is recovered through resend
	if err := s.issueVerification(ctx, user); err != nil {
		s.logger.Error("Failed to issue verification token", "user_id", user.ID, "error", err)
	}

	s.logger.Info("User registered", "user_id", user.ID)
	return user, nil
}

func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return NewInputError("Missing token")
	}

	userID, err := s.tokens.Consume(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit.LogSecurityEvent(ctx, SecurityEvent{
				Type:        SecurityEventInvalidToken,
				Description: "verification token rejected",
			})
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to consume verification token: %w", err)
	}

	if err := s.repo.User().MarkEmailVerified(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to mark email verified: %w", err)
	}

	s.logger.Info("Email verified", "user_id", userID)
	return nil
}

func (s *authService) ResendVerification(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, NewInputError("Missing email")
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if user.IsEmailVerified {
		return false, nil
	}

	if err := s.issueVerification(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}

func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, NewInputError("Missing required fields")
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.audit.LogSecurityEvent(ctx, SecurityEvent{
				Type:        SecurityEventFailedLogin,
				Email:       email,
				Description: "login for unknown email",
			})
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		s.audit.LogSecurityEvent(ctx, SecurityEvent{
			Type:        SecurityEventFailedLogin,
			UserID:      user.ID,
			Email:       email,
			Description: "wrong password",
		})
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		s.audit.LogSecurityEvent(ctx, SecurityEvent{
			Type:        SecurityEventUnverifiedLogin,
			UserID:      user.ID,
			Email:       email,
			Description: "login before email verification",
		})
		return nil, ErrEmailNotVerified
	}

	token, err := utils.GenerateJWT(user, s.config.JWTSecret, s.config.JWTExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}

	s.logger.Info("User logged in", "user_id", user.ID)
	return &LoginResponse{Token: token}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return NewInputError("Missing email")
	}

	user, err := s.repo.User().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := utils.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	reset := &models.PasswordReset{
		UserID:     user.ID,
		ResetToken: token,
		ExpiresAt:  time.Now().Add(s.config.ResetTokenTTL),
	}
	if err := s.repo.PasswordReset().Create(ctx, reset); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.notifier.NotifyPasswordReset(ctx, user, token, s.link("/auth/reset-password", token), reset.ExpiresAt)
	s.logger.Info("Password reset requested", "user_id", user.ID)
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	if req.ResetToken == "" || req.NewPassword == "" {
		return NewInputError("Missing required fields")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	var userID uint
	err = s.repo.Transaction(ctx, func(tx repositories.Repository) error {
		reset, err := tx.PasswordReset().GetByToken(ctx, req.ResetToken)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return fmt.Errorf("failed to get reset token: %w", err)
		}
		if time.Now().After(reset.ExpiresAt) {
			return ErrInvalidResetToken
		}

		user, err := tx.User().GetByID(ctx, reset.UserID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to get user: %w", err)
		}

		user.PasswordHash = hash
		if err := tx.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update password: %w", err)
		}

		// Losing this delete to a concurrent reset rolls the password change back
		if err := tx.PasswordReset().Delete(ctx, reset.ID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrInvalidResetToken
			}
			return fmt.Errorf("failed to consume reset token: %w", err)
		}

		userID = user.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidResetToken) {
			s.audit.LogSecurityEvent(ctx, SecurityEvent{
				Type:        SecurityEventInvalidToken,
				Description: "reset token rejected",
			})
		}
		return err
	}

	s.audit.LogSecurityEvent(ctx, SecurityEvent{
		Type:        SecurityEventPasswordReset,
		UserID:      userID,
		Description: "password reset completed",
	})
	return nil
}

func (s *authService) issueVerification(ctx context.Context, user *models.User) error {
	token, err := utils.NewOpaqueToken()
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}

	ttl := s.config.VerificationTokenTTL
	if err := s.tokens.Save(ctx, token, user.ID, ttl); err != nil {
		return fmt.Errorf("failed to store verification token: %w", err)
	}

	s.notifier.NotifyEmailVerification(ctx, user, token, s.link("/auth/verify-email", token), time.Now().Add(ttl))
	return nil
}

func (s *authService) link(path, token string) string {
	return s.config.PublicBaseURL + path + "?token=" + url.QueryEscape(token)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
