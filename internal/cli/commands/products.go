package commands

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
)

// NewProductsCmd creates the products command group (seller only)
func NewProductsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Manage your shop's inventory (sellers)",
	}

	cmd.AddCommand(newProductsListCmd())
	cmd.AddCommand(newProductsAddCmd())
	cmd.AddCommand(newProductsDeleteCmd())

	return cmd
}

func newProductsListCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your products",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			products, err := apiClient.MyProducts(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list products: %w", err)
			}

			if len(products) == 0 {
				fmt.Println("No products yet. Add one with 'mallhub products add'.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", p.ID, p.Name, formatPrice(p.Price), p.Stock)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}

func newProductsAddCmd() *cobra.Command {
	var server, name, description string
	var price int64
	var stock int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a product to your shop",
		RunE: func(cmd *cobra.Command, args []string) error {
			serverURL, err := resolveServerURL(server)
			if err != nil {
				return err
			}

			apiClient, err := newClient(serverURL, true)
			if err != nil {
				return err
			}

			product, err := apiClient.CreateProduct(context.Background(), client.ProductRequest{
				Name:        name,
				Description: description,
				Price:       price,
				Stock:       stock,
			})
			if err != nil {
				return fmt.Errorf("failed to create product: %w", err)
			}

			fmt.Printf("✓ Product created: %s (%s)\n", product.Name, product.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	cmd.Flags().StringVar(&name, "name", "", "Product name")
	cmd.Flags().StringVar(&description, "description", "", "Product description")
	cmd.Flags().Int64Var(&price, "price", 0, "Price in cents")
	cmd.Flags().IntVar(&stock, "stock", 0, "Units in stock")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func newProductsDeleteCmd() *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "delete <product-id>",
		Short: "Remove a product from your shop",
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

			if err := apiClient.DeleteProduct(context.Background(), args[0]); err != nil {
				return fmt.Errorf("failed to delete product: %w", err)
			}

			fmt.Printf("✓ Product %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (defaults to the configured server)")
	return cmd
}
