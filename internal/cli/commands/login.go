package commands

import (
	"context"
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewLoginCmd creates the login command
func NewLoginCmd() *cobra.Command {
	var server, email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with a Mallhub server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(server, email, password)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	cmd.Flags().StringVar(&email, "email", "", "Email address (or set MALLHUB_EMAIL)")
	cmd.Flags().StringVar(&password, "password", "", "Password (or set MALLHUB_PASSWORD, will prompt if not provided)")

	return cmd
}

func runLogin(server, email, password string) error {
	// Check for environment variables (useful for CI/CD)
	if email == "" {
		email = os.Getenv("MALLHUB_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MALLHUB_PASSWORD")
	}

	if email == "" {
		return fmt.Errorf("email is required (use --email flag or MALLHUB_EMAIL env var)")
	}

	serverURL, err := resolveServerURL(server)
	if err != nil {
		return err
	}

	// Prompt for password if not provided via flag or env var
	if password == "" {
		if term.IsTerminal(int(syscall.Stdin)) {
			fmt.Print("Password: ")
			bytePassword, err := term.ReadPassword(int(syscall.Stdin))
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = string(bytePassword)
			fmt.Println() // New line after password input
		} else {
			return fmt.Errorf("password is required in non-interactive mode (use --password flag or MALLHUB_PASSWORD env var)")
		}
	}

	store, _, err := newSessionStore(serverURL, false)
	if err != nil {
		return err
	}

	fmt.Printf("Logging in to %s...\n", serverURL)

	result := store.Login(context.Background(), email, password)
	if !result.Success {
		return fmt.Errorf("login failed: %s", result.Err)
	}

	state := store.State()
	if err := tokenStore.SaveToken(serverURL, state.Token); err != nil {
		return fmt.Errorf("failed to save authentication token: %w", err)
	}

	fmt.Println("✓ Login successful!")
	fmt.Printf("  User: %s (%s)\n", result.User.Username, result.User.Email)
	if result.User.Role == "admin" {
		fmt.Println("  Role: Admin")
	} else {
		fmt.Printf("  Type: %s\n", result.User.UserType)
	}

	return nil
}
