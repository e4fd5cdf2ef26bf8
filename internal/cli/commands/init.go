package commands

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mallhub-dev/mallhub/internal/cli/userconfig"
)

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Configure the Mallhub server this CLI talks to",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(server)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (e.g. https://mall.example.com)")
	_ = cmd.MarkFlagRequired("server")

	return cmd
}

func runInit(server string) error {
	u, err := url.Parse(server)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server URL %q (expected e.g. https://mall.example.com)", server)
	}

	cfg, err := userconfig.Load()
	if err != nil {
		return err
	}
	cfg.ServerURL = server

	if err := userconfig.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("✓ Server set to %s\n", server)
	return nil
}
