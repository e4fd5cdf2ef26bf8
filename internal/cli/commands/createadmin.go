package commands

import (
	"context"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCreateAdminCmd creates the create-admin command
func NewCreateAdminCmd() *cobra.Command {
	var server, email, username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Bootstrap the first admin account on a fresh server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreateAdmin(server, email, username, password)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	cmd.Flags().StringVar(&email, "email", "", "Admin email address")
	cmd.Flags().StringVar(&username, "username", "", "Admin display name")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (will prompt if not provided)")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("username")

	return cmd
}

func runCreateAdmin(server, email, username, password string) error {
	serverURL, err := resolveServerURL(server)
	if err != nil {
		return err
	}

	if password == "" {
		if !term.IsTerminal(int(syscall.Stdin)) {
			return fmt.Errorf("password is required in non-interactive mode (use --password)")
		}
		fmt.Print("Password: ")
		bytePassword, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = string(bytePassword)
		fmt.Println()
	}

	apiClient, err := newClient(serverURL, false)
	if err != nil {
		return err
	}

	user, err := apiClient.CreateAdmin(context.Background(), email, password, username)
	if err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	fmt.Printf("✓ Admin account created: %s (%s)\n", user.Username, user.Email)
	fmt.Println("  Run 'mallhub login' to authenticate.")
	return nil
}
