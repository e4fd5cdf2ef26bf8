package commands

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/mallhub-dev/mallhub/internal/cli/auth"
	"github.com/mallhub-dev/mallhub/internal/cli/client"
	"github.com/mallhub-dev/mallhub/internal/cli/userconfig"
	"github.com/mallhub-dev/mallhub/internal/session"
)

// tokenStore is swapped for an in-memory store in tests
var tokenStore auth.TokenStore = auth.Default

// cliLogger logs to stderr so command output on stdout stays clean
func cliLogger() zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.WarnLevel).
		With().Timestamp().Logger()
}

// resolveServerURL picks the server address: the --server flag, then the
// MALLHUB_SERVER env var, then the saved user config
func resolveServerURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("MALLHUB_SERVER"); env != "" {
		return env, nil
	}

	cfg, err := userconfig.Load()
	if err != nil {
		return "", err
	}
	if cfg.ServerURL == "" {
		return "", fmt.Errorf("no server configured. Run 'mallhub init --server <url>' first")
	}
	return cfg.ServerURL, nil
}

// newClient creates an API client for the server; withToken attaches the
// stored session token
func newClient(serverURL string, withToken bool) (*client.Client, error) {
	apiClient := client.New(serverURL)
	if withToken {
		token, err := tokenStore.LoadToken(serverURL)
		if err != nil {
			return nil, err
		}
		apiClient.SetToken(token)
	}
	return apiClient, nil
}

// newSessionStore builds a session store over an authenticated API client
func newSessionStore(serverURL string, withToken bool) (*session.Store, *client.Client, error) {
	apiClient, err := newClient(serverURL, withToken)
	if err != nil {
		return nil, nil, err
	}
	return session.New(apiClient, cliLogger()), apiClient, nil
}

// formatPrice renders integer cents as a decimal amount
func formatPrice(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
