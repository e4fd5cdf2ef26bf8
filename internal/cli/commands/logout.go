package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewLogoutCmd creates the logout command
func NewLogoutCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard the stored session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogout(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")

	return cmd
}

func runLogout(server string) error {
	serverURL, err := resolveServerURL(server)
	if err != nil {
		return err
	}

	// Logout is fail-open: the server call is best-effort and the local
	// token is discarded no matter what
	if store, _, err := newSessionStore(serverURL, true); err == nil {
		store.Logout(context.Background())
	}

	if err := tokenStore.DeleteToken(serverURL); err != nil {
		return err
	}

	fmt.Println("✓ Logged out")
	return nil
}
