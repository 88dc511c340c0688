// Package main is a small CLI utility that resets the application's
// database to a clean state. It is intended for local development and
// testing only and will permanently delete all data when run.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"feedbackapp/internal/config"
	"feedbackapp/internal/database"
	"feedbackapp/internal/observability"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
)

func main() {
	_ = godotenv.Load()
	ctx := context.Background()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLoggerWithLevel("reset-db", zapcore.ErrorLevel)
	defer func() { _ = logger.Sync() }()

	fmt.Println("DATABASE RESET UTILITY")
	fmt.Println("======================")
	fmt.Println("This will PERMANENTLY DELETE ALL DATA in the database!")
	fmt.Println("This includes:")
	fmt.Println("- All users (including admins)")
	fmt.Println("- All projects and surveys")
	fmt.Println("- All feedbacks and rating rows")
	fmt.Printf("\nDatabase: %s\n\n", cfg.Mongo.Database)
	fmt.Print("Type 'yes' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read confirmation: %v\n", err)
		os.Exit(1)
	}
	if strings.TrimSpace(strings.ToLower(answer)) != "yes" {
		fmt.Println("Aborted.")
		return
	}

	client, db, err := database.Connect(ctx, &cfg.Mongo, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to MongoDB: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	if err := db.Drop(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to drop database: %v\n", err)
		os.Exit(1)
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to recreate indexes: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Database reset complete.")
}
