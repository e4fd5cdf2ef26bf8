// Package seed loads YAML fixtures into the database, used for demo
// deployments and end-to-end tests
package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/auth"
	"github.com/mallhub-dev/mallhub/internal/models"
	"github.com/mallhub-dev/mallhub/internal/promo"
)

// Fixture is the root of a seed file
type Fixture struct {
	Users      []UserFixture      `yaml:"users"`
	Shops      []ShopFixture      `yaml:"shops"`
	Products   []ProductFixture   `yaml:"products"`
	Promotions []PromotionFixture `yaml:"promotions"`
}

// UserFixture seeds one account
type UserFixture struct {
	Email    string `yaml:"email"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
	UserType string `yaml:"user_type"`
	Approved *bool  `yaml:"approved"`
}

// ShopFixture seeds one shop, keyed to its owner by email
type ShopFixture struct {
	OwnerEmail  string `yaml:"owner_email"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// ProductFixture seeds one product, keyed to its shop by name
type ProductFixture struct {
	ShopName    string `yaml:"shop_name"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       int64  `yaml:"price"`
	Stock       int    `yaml:"stock"`
}

// PromotionFixture seeds one promotion, keyed to its product by name
type PromotionFixture struct {
	ProductName  string    `yaml:"product_name"`
	Name         string    `yaml:"name"`
	DiscountRate int       `yaml:"discount_rate"`
	StartsAt     time.Time `yaml:"starts_at"`
	EndsAt       time.Time `yaml:"ends_at"`
}

// Parse decodes a fixture document
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return &f, nil
}

// ApplyFile loads the fixture file and applies it. Records are matched on
// their natural keys, so re-applying the same file is a no-op.
func ApplyFile(db *gorm.DB, path string, zlog zerolog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read fixture file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return err
	}

	if err := Apply(db, f); err != nil {
		return err
	}

	zlog.Info().
		Str("file", path).
		Int("users", len(f.Users)).
		Int("shops", len(f.Shops)).
		Int("products", len(f.Products)).
		Int("promotions", len(f.Promotions)).
		Msg("Seed fixture applied")
	return nil
}

// Apply inserts the fixture's records, skipping ones that already exist
func Apply(db *gorm.DB, f *Fixture) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, u := range f.Users {
			if err := applyUser(tx, u); err != nil {
				return err
			}
		}
		for _, s := range f.Shops {
			if err := applyShop(tx, s); err != nil {
				return err
			}
		}
		for _, p := range f.Products {
			if err := applyProduct(tx, p); err != nil {
				return err
			}
		}
		for _, p := range f.Promotions {
			if err := applyPromotion(tx, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func applyUser(tx *gorm.DB, u UserFixture) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return err
	}

	role := u.Role
	if role == "" {
		role = models.RoleUser
	}
	userType := u.UserType
	if userType == "" {
		userType = models.UserTypeCustomer
	}
	approved := userType != models.UserTypeSeller
	if u.Approved != nil {
		approved = *u.Approved
	}

	return tx.Create(&models.User{
		Email:        u.Email,
		Username:     u.Username,
		PasswordHash: hash,
		Role:         role,
		UserType:     userType,
		Approved:     approved,
	}).Error
}

func applyShop(tx *gorm.DB, s ShopFixture) error {
	var count int64
	if err := tx.Model(&models.Shop{}).Where("name = ?", s.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	var owner models.User
	if err := tx.Where("email = ?", s.OwnerEmail).First(&owner).Error; err != nil {
		return fmt.Errorf("shop %q: owner %q not found: %w", s.Name, s.OwnerEmail, err)
	}

	status := s.Status
	if status == "" {
		status = models.ShopStatusPending
	}

	return tx.Create(&models.Shop{
		OwnerID:     owner.ID,
		Name:        s.Name,
		Description: s.Description,
		Status:      status,
	}).Error
}

func applyProduct(tx *gorm.DB, p ProductFixture) error {
	var shop models.Shop
	if err := tx.Where("name = ?", p.ShopName).First(&shop).Error; err != nil {
		return fmt.Errorf("product %q: shop %q not found: %w", p.Name, p.ShopName, err)
	}

	var count int64
	err := tx.Model(&models.Product{}).
		Where("shop_id = ? AND name = ?", shop.ID, p.Name).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return tx.Create(&models.Product{
		ShopID:      shop.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
	}).Error
}

func applyPromotion(tx *gorm.DB, p PromotionFixture) error {
	var product models.Product
	if err := tx.Where("name = ?", p.ProductName).First(&product).Error; err != nil {
		return fmt.Errorf("promotion %q: product %q not found: %w", p.Name, p.ProductName, err)
	}

	var count int64
	err := tx.Model(&models.Promotion{}).
		Where("product_id = ? AND name = ?", product.ID, p.Name).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := promo.Validate(product.Price, p.DiscountRate, p.StartsAt, p.EndsAt); err != nil {
		return fmt.Errorf("promotion %q: %w", p.Name, err)
	}

	return tx.Create(&models.Promotion{
		ProductID:    product.ID,
		Name:         p.Name,
		DiscountRate: p.DiscountRate,
		OldPrice:     product.Price,
		NewPrice:     promo.DiscountedPrice(product.Price, p.DiscountRate),
		StartsAt:     p.StartsAt,
		EndsAt:       p.EndsAt,
		Status:       models.PromotionStatusScheduled,
	}).Error
}
