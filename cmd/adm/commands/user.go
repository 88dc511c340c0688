// Package commands holds the subcommands of the adm CLI.
package commands

import (
	"context"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"feedbackapp/internal/models"
	"feedbackapp/internal/observability"
	"feedbackapp/internal/services"
	contextutils "feedbackapp/internal/utils"

	"github.com/spf13/cobra"
)

// UserCommands returns the user management commands.
func UserCommands(userService *services.UserService, logger *observability.Logger) *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long: `User management commands for the feedback application.

Available commands:
  list         - List all users
  create-admin - Create an account with the ADMIN role`,
	}

	userCmd.AddCommand(listCmd(userService))
	userCmd.AddCommand(createAdminCmd(userService, logger))

	return userCmd
}

func listCmd(userService *services.UserService) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			users, err := userService.List(context.Background())
			if err != nil {
				return contextutils.WrapError(err, "failed to list users")
			}
			if len(users) == 0 {
				fmt.Println("No users found.")
				return nil
			}

			fmt.Printf("%-26s %-30s %-25s %-20s %-8s %-10s\n", "ID", "Username", "Name", "Roles", "Deleted", "Created")
			fmt.Println(strings.Repeat("-", 120))
			for _, user := range users {
				deleted := "no"
				if user.IsDeleted {
					deleted = "yes"
				}
				fmt.Printf("%-26s %-30s %-25s %-20s %-8s %-10s\n",
					user.ID.Hex(),
					user.Username,
					user.DisplayName(),
					strings.Join(user.Roles, ","),
					deleted,
					user.CreatedAt.Format("2006-01-02"),
				)
			}
			return nil
		},
	}
}

func createAdminCmd(userService *services.UserService, logger *observability.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "create-admin [username]",
		Short: "Create an account with the ADMIN role",
		Long:  `Create an ADMIN account. The password is read from the terminal without echo.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			username := args[0]

			fmt.Print("Password: ")
			password, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return contextutils.WrapError(err, "failed to read password")
			}
			fmt.Print("Confirm password: ")
			confirm, err := term.ReadPassword(int(syscall.Stdin))
			fmt.Println()
			if err != nil {
				return contextutils.WrapError(err, "failed to read password confirmation")
			}
			if string(password) != string(confirm) {
				return fmt.Errorf("passwords do not match")
			}

			ctx := context.Background()
			user, err := userService.Create(ctx, services.UserInput{
				Username: username,
				Password: string(password),
				Roles:    []string{models.RoleAdmin},
			})
			if err != nil {
				logger.Error(ctx, "Failed to create admin user", err, map[string]interface{}{
					"username": username,
				})
				return contextutils.WrapError(err, "failed to create admin user")
			}

			fmt.Printf("Created admin user %s (%s)\n", user.Username, user.ID.Hex())
			return nil
		},
	}
}
