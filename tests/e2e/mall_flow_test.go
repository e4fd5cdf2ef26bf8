package e2e

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mallhub-dev/mallhub/internal/cli/client"
	"github.com/mallhub-dev/mallhub/internal/config"
	"github.com/mallhub-dev/mallhub/internal/guard"
	"github.com/mallhub-dev/mallhub/internal/server"
	"github.com/mallhub-dev/mallhub/internal/session"
)

// startServer boots a full server on a throwaway database
func startServer(t *testing.T) *httptest.Server {
	t.Helper()

	tmp := t.TempDir()
	cfg := &config.Config{
		Server: config.ServerConfig{
			Addr:       ":0",
			UploadDir:  filepath.Join(tmp, "uploads"),
			CORSOrigin: "http://localhost:5173",
		},
		Database: config.DatabaseConfig{URL: filepath.Join(tmp, "mall.sqlite")},
		Redis:    config.RedisConfig{Address: "localhost:6379"},
	}

	srv, err := server.New(cfg, zerolog.Nop(), "e2e")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

// TestMallLifecycle walks the whole platform flow through the real HTTP
// client and session store: admin bootstrap, seller registration and
// approval, product listing, customer browsing and a scheduled promotion.
func TestMallLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	ts := startServer(t)
	ctx := context.Background()

	// Admin bootstrap
	adminAPI := client.New(ts.URL)
	adminSession := session.New(adminAPI, zerolog.Nop())

	adminSession.CheckAuthStatus(ctx)
	require.Equal(t, guard.StatusAnonymous, adminSession.State().Status)

	_, err := adminAPI.CreateAdmin(ctx, "admin@example.com", "admin-secret", "admin")
	require.NoError(t, err)

	result := adminSession.Login(ctx, "admin@example.com", "admin-secret")
	require.True(t, result.Success, result.Err)
	adminAPI.SetToken(adminSession.State().Token)

	// Admin routes open up once the session snapshot carries the admin role
	decision := guard.Evaluate(adminSession.Snapshot(), guard.AdminOnly(), "/admin")
	require.Equal(t, guard.ActionAllow, decision.Action)

	// Seller registers and waits for approval
	sellerAPI := client.New(ts.URL)
	sellerSession := session.New(sellerAPI, zerolog.Nop())

	result = sellerSession.Register(ctx, client.RegisterRequest{
		Email:           "seller@example.com",
		Password:        "seller-secret",
		Username:        "seller",
		UserType:        "seller",
		ShopName:        "Gadget Corner",
		ShopDescription: "All kinds of gadgets",
	}, "")
	require.True(t, result.Success, result.Err)
	require.False(t, sellerSession.State().Authenticated(), "registration must not log the seller in")

	result = sellerSession.Login(ctx, "seller@example.com", "seller-secret")
	require.False(t, result.Success, "unapproved seller must not log in")
	require.Equal(t, "Seller account is pending approval", result.Err)

	// Admin approves the shop
	pending, err := adminAPI.AdminListShops(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, adminAPI.ApproveShop(ctx, pending[0].ID))

	approved, err := adminAPI.AdminListShops(ctx, "approved")
	require.NoError(t, err)
	require.Len(t, approved, 1)

	// Seller can now log in and list a product
	result = sellerSession.Login(ctx, "seller@example.com", "seller-secret")
	require.True(t, result.Success, result.Err)
	sellerAPI.SetToken(sellerSession.State().Token)

	product, err := sellerAPI.CreateProduct(ctx, client.ProductRequest{
		Name:        "Widget",
		Description: "A fine widget",
		Price:       1000,
		Stock:       5,
	})
	require.NoError(t, err)

	// Customer registers and browses the catalog
	customerAPI := client.New(ts.URL)
	customerSession := session.New(customerAPI, zerolog.Nop())

	result = customerSession.Register(ctx, client.RegisterRequest{
		Email:    "customer@example.com",
		Password: "customer-secret",
		Username: "customer",
		UserType: "customer",
	}, "")
	require.True(t, result.Success, result.Err)

	result = customerSession.Login(ctx, "customer@example.com", "customer-secret")
	require.True(t, result.Success, result.Err)

	shops, err := customerAPI.ListShops(ctx)
	require.NoError(t, err)
	require.Len(t, shops, 1)

	products, err := customerAPI.ListShopProducts(ctx, shops[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	require.Equal(t, int64(1000), products[0].Price)

	// Customers are barred from admin operations
	decision = guard.Evaluate(customerSession.Snapshot(), guard.AdminOnly(), "/admin")
	require.Equal(t, guard.ActionRedirect, decision.Action)
	require.Equal(t, guard.HomeRoute, decision.Location)

	// Admin schedules a promotion; the derived price uses integer cents
	startsAt := time.Now().Add(time.Hour).UTC()
	promotion, err := adminAPI.CreatePromotion(ctx, client.PromotionRequest{
		ProductID:    product.ID,
		Name:         "Autumn Sale",
		DiscountRate: 20,
		StartsAt:     startsAt,
		EndsAt:       startsAt.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	require.Equal(t, int64(800), promotion.NewPrice)
	require.Equal(t, "scheduled", promotion.Status)

	// Logout drops the session even if nothing else changes
	customerSession.Logout(ctx)
	require.Equal(t, guard.StatusAnonymous, customerSession.State().Status)
}
