package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/spf13/cobra"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
)

// NewRegisterCmd creates the register command
func NewRegisterCmd() *cobra.Command {
	var server, email, password, username, userType string
	var shopName, shopDescription, logo string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a customer or seller account",
		Long: `Create a Mallhub account.

Seller registrations include a shop, optionally with a logo image, and wait
for admin approval before the first login.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegister(server, client.RegisterRequest{
				Email:           email,
				Password:        password,
				Username:        username,
				UserType:        userType,
				ShopName:        shopName,
				ShopDescription: shopDescription,
			}, logo)
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&password, "password", "", "Password")
	cmd.Flags().StringVar(&username, "username", "", "Display name")
	cmd.Flags().StringVar(&userType, "type", "customer", "Account type: customer or seller")
	cmd.Flags().StringVar(&shopName, "shop-name", "", "Shop name (sellers only)")
	cmd.Flags().StringVar(&shopDescription, "shop-description", "", "Shop description (sellers only)")
	cmd.Flags().StringVar(&logo, "logo", "", "Path to a shop logo image (sellers only)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("username")

	return cmd
}

func runRegister(server string, req client.RegisterRequest, logo string) error {
	serverURL, err := resolveServerURL(server)
	if err != nil {
		return err
	}

	store, apiClient, err := newSessionStore(serverURL, false)
	if err != nil {
		return err
	}

	// Logo uploads can outlast the default timeout on slow links
	if logo != "" {
		jar, _ := cookiejar.New(nil)
		apiClient.SetHTTPClient(&http.Client{
			Timeout: 2 * time.Minute,
			Jar:     jar,
		})
	}

	result := store.Register(context.Background(), req, logo)
	if !result.Success {
		return fmt.Errorf("registration failed: %s", result.Err)
	}

	fmt.Println("✓ Account created!")
	if req.UserType == "seller" {
		fmt.Println("  Your shop is pending admin approval; you can log in once it is approved.")
	} else {
		fmt.Println("  You can now log in with 'mallhub login'.")
	}
	return nil
}
