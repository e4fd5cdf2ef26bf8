package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
)

// NewPromotionsCmd creates the promotions command group (admin only)
func NewPromotionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "promotions",
		Short: "Manage mall promotions (admins)",
	}

	cmd.AddCommand(newPromotionsListCmd())
	cmd.AddCommand(newPromotionsCreateCmd())
	cmd.AddCommand(newPromotionsDeleteCmd())

	return cmd
}

func newPromotionsListCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List promotions",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			promotions, err := apiClient.ListPromotions(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list promotions: %w", err)
			}

			if len(promotions) == 0 {
				fmt.Println("No promotions.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDISCOUNT\tOLD\tNEW\tSTATUS\tENDS")
			for _, p := range promotions {
				fmt.Fprintf(w, "%s\t%s\t%d%%\t%s\t%s\t%s\t%s\n",
					p.ID, p.Name, p.DiscountRate,
					formatPrice(p.OldPrice), formatPrice(p.NewPrice),
					p.Status, p.EndsAt.Format(time.RFC3339))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}

func newPromotionsCreateCmd() *cobra.Command {
	var server, productID, name, startsAt, endsAt string
	var discountRate int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a promotion on a product",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			start, err := time.Parse(time.RFC3339, startsAt)
			if err != nil {
				return fmt.Errorf("invalid --starts-at (expected RFC3339, e.g. 2026-09-01T00:00:00Z): %w", err)
			}
			end, err := time.Parse(time.RFC3339, endsAt)
			if err != nil {
				return fmt.Errorf("invalid --ends-at (expected RFC3339): %w", err)
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			promotion, err := apiClient.CreatePromotion(context.Background(), client.PromotionRequest{
				ProductID:    productID,
				Name:         name,
				DiscountRate: discountRate,
				StartsAt:     start,
				EndsAt:       end,
			})
			if err != nil {
				return fmt.Errorf("failed to create promotion: %w", err)
			}

			fmt.Printf("✓ Promotion %s scheduled: %s down to %s (%d%% off)\n",
				promotion.ID, formatPrice(promotion.OldPrice),
				formatPrice(promotion.NewPrice), promotion.DiscountRate)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	cmd.Flags().StringVar(&productID, "product", "", "Product ID")
	cmd.Flags().StringVar(&name, "name", "", "Promotion name")
	cmd.Flags().IntVar(&discountRate, "discount", 0, "Discount rate in percent (1-99)")
	cmd.Flags().StringVar(&startsAt, "starts-at", "", "Start time (RFC3339)")
	cmd.Flags().StringVar(&endsAt, "ends-at", "", "End time (RFC3339)")
	_ = cmd.MarkFlagRequired("product")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("discount")
	_ = cmd.MarkFlagRequired("starts-at")
	_ = cmd.MarkFlagRequired("ends-at")

	return cmd
}

func newPromotionsDeleteCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "delete <promotion-id>",
		Short: "Delete a promotion",
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

			if err := apiClient.DeletePromotion(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete promotion: %w", err)
			}

			fmt.Printf("✓ Promotion %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}
