package seed

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/auth"
	"github.com/mallhub-dev/mallhub/internal/models"
)

const fixtureYAML = `
users:
  - email: admin@example.com
    username: admin
    password: admin-secret
    role: admin
    user_type: admin
  - email: seller@example.com
    username: seller
    password: seller-secret
    user_type: seller
    approved: true
  - email: customer@example.com
    username: customer
    password: customer-secret

shops:
  - owner_email: seller@example.com
    name: Gadget Corner
    description: All kinds of gadgets
    status: approved

products:
  - shop_name: Gadget Corner
    name: Widget
    description: A fine widget
    price: 1000
    stock: 5

promotions:
  - product_name: Widget
    name: Autumn Sale
    discount_rate: 20
    starts_at: 2026-10-01T00:00:00Z
    ends_at: 2026-10-08T00:00:00Z
`

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.sqlite")), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func TestParse(t *testing.T) {
	f, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	if len(f.Users) != 3 || len(f.Shops) != 1 || len(f.Products) != 1 || len(f.Promotions) != 1 {
		t.Fatalf("unexpected counts: %d users, %d shops, %d products, %d promotions",
			len(f.Users), len(f.Shops), len(f.Products), len(f.Promotions))
	}
	if f.Users[0].Role != models.RoleAdmin {
		t.Errorf("first user role = %q", f.Users[0].Role)
	}
	if f.Users[1].Approved == nil || !*f.Users[1].Approved {
		t.Error("seller approved flag not parsed")
	}
	if f.Promotions[0].DiscountRate != 20 {
		t.Errorf("discount rate = %d", f.Promotions[0].DiscountRate)
	}
}

func TestApply(t *testing.T) {
	db := newTestDB(t)

	f, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}
	if err := Apply(db, f); err != nil {
		t.Fatalf("failed to apply fixture: %v", err)
	}

	var admin models.User
	if err := db.Where("email = ?", "admin@example.com").First(&admin).Error; err != nil {
		t.Fatalf("admin not seeded: %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("admin role = %q", admin.Role)
	}
	if err := auth.VerifyPassword("admin-secret", admin.PasswordHash); err != nil {
		t.Error("seeded password does not verify")
	}

	var customer models.User
	if err := db.Where("email = ?", "customer@example.com").First(&customer).Error; err != nil {
		t.Fatalf("customer not seeded: %v", err)
	}
	if customer.UserType != models.UserTypeCustomer || !customer.Approved {
		t.Errorf("customer defaults wrong: type=%q approved=%v", customer.UserType, customer.Approved)
	}

	var shop models.Shop
	if err := db.Where("name = ?", "Gadget Corner").First(&shop).Error; err != nil {
		t.Fatalf("shop not seeded: %v", err)
	}
	if shop.Status != models.ShopStatusApproved {
		t.Errorf("shop status = %q", shop.Status)
	}

	var product models.Product
	if err := db.Where("name = ?", "Widget").First(&product).Error; err != nil {
		t.Fatalf("product not seeded: %v", err)
	}
	if product.ShopID != shop.ID || product.Price != 1000 {
		t.Errorf("product wired wrong: %+v", product)
	}

	var promotion models.Promotion
	if err := db.Where("name = ?", "Autumn Sale").First(&promotion).Error; err != nil {
		t.Fatalf("promotion not seeded: %v", err)
	}
	if promotion.ProductID != product.ID {
		t.Errorf("promotion product = %q, want %q", promotion.ProductID, product.ID)
	}
	if promotion.OldPrice != 1000 || promotion.NewPrice != 800 {
		t.Errorf("promotion prices = %d/%d, want 1000/800", promotion.OldPrice, promotion.NewPrice)
	}
}

func TestApply_Idempotent(t *testing.T) {
	db := newTestDB(t)

	f, err := Parse([]byte(fixtureYAML))
	if err != nil {
		t.Fatalf("failed to parse fixture: %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := Apply(db, f); err != nil {
			t.Fatalf("apply %d failed: %v", i, err)
		}
	}

	var users, shops, products, promotions int64
	db.Model(&models.User{}).Count(&users)
	db.Model(&models.Shop{}).Count(&shops)
	db.Model(&models.Product{}).Count(&products)
	db.Model(&models.Promotion{}).Count(&promotions)

	if users != 3 || shops != 1 || products != 1 || promotions != 1 {
		t.Errorf("re-apply duplicated records: %d users, %d shops, %d products, %d promotions",
			users, shops, products, promotions)
	}
}

func TestApply_MissingOwnerFails(t *testing.T) {
	db := newTestDB(t)

	f := &Fixture{
		Shops: []ShopFixture{{OwnerEmail: "nobody@example.com", Name: "Orphan Shop"}},
	}
	if err := Apply(db, f); err == nil {
		t.Fatal("expected an error for a shop without its owner")
	}
}
