package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SAP-F-2025/exam-service/internal/cache"
	"github.com/SAP-F-2025/exam-service/internal/config"
	"github.com/SAP-F-2025/exam-service/internal/events"
	"github.com/SAP-F-2025/exam-service/internal/handlers"
	"github.com/SAP-F-2025/exam-service/internal/middleware"
	"github.com/SAP-F-2025/exam-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/exam-service/internal/services"
	"github.com/SAP-F-2025/exam-service/internal/utils"
	"github.com/SAP-F-2025/exam-service/internal/validator"
	"github.com/SAP-F-2025/exam-service/pkg"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd)
	},
}

func init() {
	serveCmd.Flags().Bool("migrate", true, "Migrate the schema before serving")
}

func runServer(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := utils.NewLogger(cfg.Environment)
	slogger := utils.ToSlogLogger(logger)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.LogError(err, "Failed to connect to database")
		return err
	}
	// The root command has no --migrate flag and always migrates
	if migrate, err := cmd.Flags().GetBool("migrate"); err != nil || migrate {
		if err := pkg.AutoMigrate(db); err != nil {
			logger.LogError(err, "Failed to migrate database")
			return err
		}
	}

	// Verification tokens live in Redis when available, otherwise in the database
	var tokenStore services.VerificationTokenStore
	redisClient, err := pkg.NewRedisClient(cfg)
	switch {
	case err == nil:
		logger.Info("Using Redis for verification tokens")
		tokenStore = cache.NewRedisTokenStore(redisClient)
		defer redisClient.Close()
	case errors.Is(err, pkg.ErrRedisNotConfigured):
		tokenStore = postgres.NewVerificationTokenPostgreSQL(db)
	default:
		logger.Warn("Redis unavailable, falling back to database token store", "error", err)
		tokenStore = postgres.NewVerificationTokenPostgreSQL(db)
	}

	publisher, err := cfg.Events.CreateEventPublisher(slogger)
	if err != nil {
		logger.LogError(err, "Failed to create event publisher, falling back to mock")
		publisher = events.NewMockEventPublisher(slogger)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.LogError(err, "Failed to close event publisher")
		}
	}()

	repo := postgres.NewRepository(db)
	serviceManager := services.NewServiceManager(
		repo,
		tokenStore,
		services.NewNotificationEventService(publisher, slogger),
		authConfig(cfg),
		slogger,
		validator.New(),
	)

	handlerManager := handlers.NewHandlerManager(serviceManager, logger)
	router := handlerManager.NewRouter(handlers.RouterConfig{
		JWTSecret:          cfg.JWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimit:      cfg.AuthRateLimit,
		AuthRateWindow:     cfg.AuthRateWindow,
		Metrics:            middleware.NewMetrics(),
		Health:             handlers.NewHealthHandler(db, redisClient, logger),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err, ok := <-serverErr:
		if ok {
			logger.LogError(err, "Server failed")
			return err
		}
		return nil
	case sig := <-quit:
		logger.Info("Shutting down server", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.LogError(err, "Server forced to shutdown")
		return err
	}

	logger.Info("Server exiting")
	return nil
}

func authConfig(cfg *config.Config) services.AuthConfig {
	return services.AuthConfig{
		JWTSecret:            cfg.JWTSecret,
		JWTExpiry:            cfg.JWTExpiry,
		VerificationTokenTTL: cfg.VerificationTokenTTL,
		ResetTokenTTL:        cfg.ResetTokenTTL,
		PublicBaseURL:        cfg.PublicBaseURL,
	}
}
