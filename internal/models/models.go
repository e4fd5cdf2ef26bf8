package models

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"
)

// Role is the coarse admin/non-admin flag carried on every user
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserType classifies the principal within the mall
const (
	UserTypeCustomer = "customer"
	UserTypeSeller   = "seller"
	UserTypeAdmin    = "admin"
)

// Shop approval states
const (
	ShopStatusPending  = "pending"
	ShopStatusApproved = "approved"
	ShopStatusRejected = "rejected"
)

// Promotion lifecycle states
const (
	PromotionStatusScheduled = "scheduled"
	PromotionStatusActive    = "active"
	PromotionStatusExpired   = "expired"
)

// BaseModel provides common fields and auto-generated ULID for all models
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config represents the global platform configuration
// This is a singleton model (only one row should exist)
type Config struct {
	BaseModel
	// Auto-generated on first boot (64 hex chars), used to sign session tokens
	JWTSecret string `json:"-" gorm:"type:varchar(64);not null"`
}

// User represents a mall account: customer, seller or admin
type User struct {
	BaseModel
	Email        string    `json:"email" gorm:"unique;not null"`
	Username     string    `json:"username" gorm:"not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"not null;default:user"`
	UserType     string    `json:"user_type" gorm:"not null;default:customer"`
	Approved     bool      `json:"approved" gorm:"not null;default:true"` // sellers start unapproved
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Shop *Shop `json:"shop,omitempty" gorm:"foreignKey:OwnerID"`
}

// IsAdmin reports whether the user carries the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Shop represents a seller's storefront within the mall
type Shop struct {
	BaseModel
	OwnerID     string    `json:"owner_id" gorm:"not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	LogoPath    string    `json:"logo_path"`
	Status      string    `json:"status" gorm:"not null;default:pending"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Owner    *User     `json:"owner,omitempty" gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:CASCADE"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:ShopID"`
}

// Product represents an item listed in a shop. Prices are integer cents.
type Product struct {
	BaseModel
	ShopID      string    `json:"shop_id" gorm:"not null;index"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Price       int64     `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Shop Shop `json:"shop,omitzero" gorm:"foreignKey:ShopID;constraint:OnDelete:CASCADE"`
}

// Promotion represents a time-bounded discount on a product
type Promotion struct {
	BaseModel
	ProductID    string    `json:"product_id" gorm:"not null;index"`
	Name         string    `json:"name" gorm:"not null"`
	DiscountRate int       `json:"discount_rate" gorm:"not null"` // percent, 1-99
	OldPrice     int64     `json:"old_price" gorm:"not null"`     // price before the discount, cents
	NewPrice     int64     `json:"new_price" gorm:"not null"`     // discounted price, cents
	StartsAt     time.Time `json:"starts_at" gorm:"not null"`
	EndsAt       time.Time `json:"ends_at" gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:scheduled"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Product Product `json:"product,omitzero" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&User{}, &Config{}, &Shop{}, &Product{}, &Promotion{},
	}

	return db.AutoMigrate(models...)
}

// FindByID safely finds a record by string ID
func FindByID[T any](db *gorm.DB, id string, model *T) error {
	return db.Where("id = ?", id).First(model).Error
}

// FindByIDWithPreload finds a record by ID with preloading
func FindByIDWithPreload[T any](db *gorm.DB, id string, model *T, preloads ...string) error {
	query := db
	for _, preload := range preloads {
		query = query.Preload(preload)
	}
	return query.Where("id = ?", id).First(model).Error
}
