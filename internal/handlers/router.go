package handlers

import (
	"time"

	"github.com/SAP-F-2025/exam-service/internal/middleware"
	"github.com/SAP-F-2025/exam-service/internal/models"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/gin-gonic/gin"
)

// RouterConfig carries the settings the route tree depends on
type RouterConfig struct {
	JWTSecret          string
	CORSAllowedOrigins []string
	AuthRateLimit      int
	AuthRateWindow     time.Duration

	// Optional. Without them /metrics and the store checks are not mounted.
	Metrics *middleware.Metrics
	Health  *HealthHandler
}

type HandlerManager struct {
	authHandler     *AuthHandler
	userHandler     *UserHandler
	subjectHandler  *SubjectHandler
	questionHandler *QuestionHandler
	testHandler     *TestHandler
	logger          utils.Logger
}

func NewHandlerManager(serviceManager services.ServiceManager, logger utils.Logger) *HandlerManager {
	return &HandlerManager{
		authHandler:    NewAuthHandler(serviceManager.Auth(), logger),
		userHandler:    NewUserHandler(serviceManager.User(), logger),
		subjectHandler: NewSubjectHandler(serviceManager.Subject(), logger),
		questionHandler: NewQuestionHandler(
			serviceManager.Question(),
			serviceManager.ImportExport(),
			logger,
		),
		testHandler: NewTestHandler(
			serviceManager.Test(),
			serviceManager.Attempt(),
			serviceManager.Analytics(),
			serviceManager.ImportExport(),
			logger,
		),
		logger: logger,
	}
}

// NewRouter builds a gin engine with the global middleware chain and every route
func (hm *HandlerManager) NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	router.Use(middleware.Secure())
	router.Use(utils.ContextLogger(hm.logger))
	router.Use(utils.LoggerMiddleware(hm.logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	hm.SetupRoutes(router, cfg)
	return router
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine, cfg RouterConfig) {
	// Operational endpoints
	health := cfg.Health
	if health == nil {
		health = NewHealthHandler(nil, nil, hm.logger)
	}
	router.GET("/health", health.HealthCheck)
	if cfg.Metrics != nil {
		router.GET("/metrics", cfg.Metrics.Handler())
	}

	requireAuth := middleware.AuthMiddleware(cfg.JWTSecret, hm.logger)
	require := middleware.RequireCapability

	// Identity routes
	auth := router.Group("/auth")
	auth.Use(middleware.RateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow))
	{
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/verify-email", hm.authHandler.VerifyEmail)
		auth.POST("/resend-verification", hm.authHandler.ResendVerification)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/forgot-password", hm.authHandler.ForgotPassword)
		auth.POST("/reset-password", hm.authHandler.ResetPassword)
	}

	users := router.Group("/users")
	users.Use(requireAuth)
	{
		users.GET("/profile", hm.userHandler.GetProfile)
		users.PUT("/profile", hm.userHandler.UpdateProfile)
		users.DELETE("/profile", hm.userHandler.DeleteProfile)

		// Account administration
		users.GET("", require(models.CapManageUsers), hm.userHandler.ListUsers)
		users.GET("/:id", require(models.CapManageUsers), hm.userHandler.GetUser)
		users.PUT("/:id", require(models.CapManageUsers), hm.userHandler.UpdateUser)
		users.DELETE("/:id", require(models.CapManageUsers), hm.userHandler.DeleteUser)
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(requireAuth)
	{
		subjects := v1.Group("/subjects")
		{
			subjects.POST("", require(models.CapManageQuestions), hm.subjectHandler.CreateSubject)
			subjects.GET("", hm.subjectHandler.ListSubjects)
			subjects.POST("/:id/topics", require(models.CapManageQuestions), hm.subjectHandler.CreateTopic)
			subjects.GET("/:id/topics", hm.subjectHandler.ListTopics)
		}

		questions := v1.Group("/questions")
		questions.Use(require(models.CapManageQuestions))
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.GET("", hm.questionHandler.ListQuestions)
			questions.POST("/bulk-upload", hm.questionHandler.BulkUpload)
			questions.GET("/export", hm.questionHandler.ExportQuestions)
			questions.GET("/:id", hm.questionHandler.GetQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}

		tests := v1.Group("/tests")
		{
			tests.POST("", require(models.CapManageTests), hm.testHandler.CreateTest)
			tests.GET("", hm.testHandler.ListTests)
			tests.GET("/:id", hm.testHandler.GetTest)
			tests.PUT("/:id", require(models.CapManageTests), hm.testHandler.UpdateTest)
			tests.DELETE("/:id", require(models.CapManageTests), hm.testHandler.DeleteTest)
			tests.GET("/:id/questions", hm.testHandler.GetTestQuestions)

			// Assignment and attempts
			tests.POST("/:id/assign", require(models.CapAssignTests), hm.testHandler.AssignTest)
			tests.POST("/:id/attempt", hm.testHandler.SubmitAttempt)
			tests.GET("/:id/attempt", hm.testHandler.GetAttempt)
			tests.GET("/:id/results", hm.testHandler.GetResults)
			tests.GET("/:id/results/export", require(models.CapViewAnalytics), hm.testHandler.ExportResults)

			// Analytics
			tests.GET("/:id/analytics", require(models.CapViewAnalytics), hm.testHandler.GetAnalytics)
		}
	}
}
