// Package main is the admin CLI for the feedback application. It talks to
// the configured Mongo instance directly, without going through the HTTP
// API.
package main

import (
	"context"
	"fmt"
	"os"

	"feedbackapp/cmd/adm/commands"
	"feedbackapp/internal/config"
	"feedbackapp/internal/database"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Keep the CLI output readable; only errors go through the logger.
	logger := observability.NewLoggerWithLevel(cfg.ServiceName+"-adm", zapcore.ErrorLevel)
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	client, db, err := database.Connect(ctx, &cfg.Mongo, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to MongoDB: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	store := database.NewStore(db)
	userService := services.NewUserService(store.Users, &cfg.JWT, logger)

	rootCmd := &cobra.Command{
		Use:   "adm",
		Short: "Admin tool for the feedback application",
		Long:  `Administrative commands for the feedback application, run directly against the database.`,
	}
	rootCmd.AddCommand(commands.UserCommands(userService, logger))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
