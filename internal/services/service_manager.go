package services

import (
	"log/slog"

	"github.com/SAP-F-2025/exam-service/internal/repositories"
	"github.com/SAP-F-2025/exam-service/internal/validator"
)

// ServiceManager hands out the services built over one repository
type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Subject() SubjectService
	Question() QuestionService
	ImportExport() ImportExportService
	Test() TestService
	Attempt() AttemptService
	Analytics() AnalyticsService
}

type serviceManager struct {
	auth         AuthService
	user         UserService
	subject      SubjectService
	question     QuestionService
	importExport ImportExportService
	test         TestService
	attempt      AttemptService
	analytics    AnalyticsService
}

func NewServiceManager(
	repo repositories.Repository,
	tokens VerificationTokenStore,
	notifier NotificationEventService,
	authConfig AuthConfig,
	logger *slog.Logger,
	validator *validator.Validator,
) ServiceManager {
	return &serviceManager{
		auth:         NewAuthService(repo, tokens, notifier, authConfig, logger, validator),
		user:         NewUserService(repo, logger, validator),
		subject:      NewSubjectService(repo, logger, validator),
		question:     NewQuestionService(repo, logger, validator),
		importExport: NewImportExportService(repo, logger, validator),
		test:         NewTestService(repo, logger, validator),
		attempt:      NewAttemptService(repo, notifier, logger, validator),
		analytics:    NewAnalyticsService(repo, logger),
	}
}

func (m *serviceManager) Auth() AuthService                 { return m.auth }
func (m *serviceManager) User() UserService                 { return m.user }
func (m *serviceManager) Subject() SubjectService           { return m.subject }
func (m *serviceManager) Question() QuestionService         { return m.question }
func (m *serviceManager) ImportExport() ImportExportService { return m.importExport }
func (m *serviceManager) Test() TestService                 { return m.test }
func (m *serviceManager) Attempt() AttemptService           { return m.attempt }
func (m *serviceManager) Analytics() AnalyticsService       { return m.analytics }
