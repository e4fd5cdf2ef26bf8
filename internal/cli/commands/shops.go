package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewShopsCmd creates the shops command group
func NewShopsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shops",
		Short: "Browse and review shops",
	}

	cmd.AddCommand(newShopsListCmd())
	cmd.AddCommand(newShopsPendingCmd())
	cmd.AddCommand(newShopsApproveCmd())
	cmd.AddCommand(newShopsRejectCmd())

	return cmd
}

func newShopsListCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List approved shops",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, false)
			if err != nil {
				return err
			}

			shops, err := apiClient.ListShops(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list shops: %w", err)
			}

			if len(shops) == 0 {
				fmt.Println("No shops yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
			for _, shop := range shops {
				fmt.Fprintf(w, "%s\t%s\t%s\n", shop.ID, shop.Name, shop.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}

func newShopsPendingCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List shops awaiting review (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			shops, err := apiClient.AdminListShops(context.Background(), "pending")
			if err != nil {
				return fmt.Errorf("failed to list pending shops: %w", err)
			}

			if len(shops) == 0 {
				fmt.Println("No shops pending review.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tOWNER\tCREATED")
			for _, shop := range shops {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", shop.ID, shop.Name, shop.OwnerID, shop.CreatedAt)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}

func newShopsApproveCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "approve <shop-id>",
		Short: "Approve a pending shop (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			if err := apiClient.ApproveShop(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to approve shop: %w", err)
			}

			fmt.Printf("✓ Shop %s approved\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}

func newShopsRejectCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "reject <shop-id>",
		Short: "Reject a pending shop (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			if err := apiClient.RejectShop(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to reject shop: %w", err)
			}

			fmt.Printf("✓ Shop %s rejected\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}
