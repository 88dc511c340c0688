// Package main is the entry point for the feedback application backend
// server. It wires config, logging, the Mongo stores and the HTTP routes,
// and shuts down cleanly on SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedbackapp/internal/config"
	"feedbackapp/internal/database"
	"feedbackapp/internal/handlers"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	"feedbackapp/internal/services/mailer"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.ServiceName)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	client, db, err := database.Connect(ctx, &cfg.Mongo, logger)
	if err != nil {
		logger.Error(ctx, "Failed to connect to MongoDB", err, nil)
		os.Exit(1)
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error(context.Background(), "Failed to disconnect from MongoDB", err, nil)
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Error(ctx, "Failed to ensure indexes", err, nil)
		os.Exit(1)
	}

	store := database.NewStore(db)

	userService := services.NewUserService(store.Users, &cfg.JWT, logger)
	projectService := services.NewProjectService(store.Projects, logger)
	surveyService := services.NewSurveyService(store.Surveys, logger)
	feedbackService := services.NewFeedbackService(store.Projects, store.Feedbacks, store.Ratings, logger)
	reportingService := services.NewReportingService(store.Projects, store.Ratings, logger)
	resetService := services.NewPasswordResetService(
		store.Users,
		mailer.NewMailer(&cfg.Mail, logger),
		cfg.Mail.ResetBaseURL,
		logger,
	)

	router := handlers.NewRouter(
		cfg,
		userService,
		projectService,
		surveyService,
		feedbackService,
		reportingService,
		resetService,
		logger,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logger.Info(ctx, "Server starting", map[string]interface{}{
			"port": cfg.Server.Port,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "Server failed", err, nil)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "Server shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Server forced to shut down", err, nil)
	}
}
