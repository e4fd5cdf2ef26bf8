package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewWhoamiCmd creates the whoami command
func NewWhoamiCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the currently authenticated user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhoami(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")

	return cmd
}

func runWhoami(server string) error {
	serverURL, err := resolveServerURL(server)
	if err != nil {
		return err
	}

	store, _, err := newSessionStore(serverURL, true)
	if err != nil {
		return err
	}

	store.CheckAuthStatus(context.Background())

	state := store.State()
	if !state.Authenticated() {
		return fmt.Errorf("not authenticated. Please run 'mallhub login' first")
	}

	fmt.Printf("User:  %s\n", state.User.Username)
	fmt.Printf("Email: %s\n", state.User.Email)
	fmt.Printf("Type:  %s\n", state.User.UserType)
	if state.User.Role == "admin" {
		fmt.Println("Role:  admin")
	}
	return nil
}
