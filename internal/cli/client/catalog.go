package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Shop represents a storefront in API responses
type Shop struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	LogoPath    string `json:"logo_path"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// Product represents a shop item. Price is integer cents.
type Product struct {
	ID          string `json:"id"`
	ShopID      string `json:"shop_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// Promotion represents a time-bounded product discount
type Promotion struct {
	ID           string    `json:"id"`
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	DiscountRate int       `json:"discount_rate"`
	OldPrice     int64     `json:"old_price"`
	NewPrice     int64     `json:"new_price"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
	Status       string    `json:"status"`
}

// ProductRequest is the create/update body for a seller's product
type ProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       int64  `json:"price"`
	Stock       int    `json:"stock"`
}

// PromotionRequest is the admin create body for a promotion
type PromotionRequest struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	DiscountRate int       `json:"discount_rate"`
	StartsAt     time.Time `json:"starts_at"`
	EndsAt       time.Time `json:"ends_at"`
}

// ListShops returns approved shops visible to customers
func (c *Client) ListShops(ctx context.Context) ([]Shop, error) {
	var shops []Shop
	if err := c.doJSON(ctx, http.MethodGet, "/api/shops", nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// ListShopProducts returns the products of an approved shop
func (c *Client) ListShopProducts(ctx context.Context, shopID string) ([]Product, error) {
	var products []Product
	path := fmt.Sprintf("/api/shops/%s/products", url.PathEscape(shopID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// MyShop returns the calling seller's shop
func (c *Client) MyShop(ctx context.Context) (*Shop, error) {
	var shop Shop
	if err := c.doJSON(ctx, http.MethodGet, "/api/seller/shop", nil, &shop); err != nil {
		return nil, err
	}
	return &shop, nil
}

// MyProducts returns the calling seller's products
func (c *Client) MyProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/seller/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct adds a product to the calling seller's shop
func (c *Client) CreateProduct(ctx context.Context, r ProductRequest) (*Product, error) {
	var product Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/seller/products", r, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct updates one of the calling seller's products
func (c *Client) UpdateProduct(ctx context.Context, id string, r ProductRequest) (*Product, error) {
	var product Product
	path := fmt.Sprintf("/api/seller/products/%s", url.PathEscape(id))
	if err := c.doJSON(ctx, http.MethodPut, path, r, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes one of the calling seller's products
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/seller/products/%s", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// AdminListShops lists shops filtered by approval status (admin only).
// Pass an empty status to list every shop.
func (c *Client) AdminListShops(ctx context.Context, status string) ([]Shop, error) {
	path := "/api/admin/shops"
	if status != "" {
		path += "?status=" + url.QueryEscape(status)
	}
	var shops []Shop
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &shops); err != nil {
		return nil, err
	}
	return shops, nil
}

// ApproveShop approves a pending shop (admin only)
func (c *Client) ApproveShop(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/shops/%s/approve", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

// RejectShop rejects a pending shop (admin only)
func (c *Client) RejectShop(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/shops/%s/reject", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodPost, path, nil, nil)
}

// ListPromotions lists all promotions (admin only)
func (c *Client) ListPromotions(ctx context.Context) ([]Promotion, error) {
	var promotions []Promotion
	if err := c.doJSON(ctx, http.MethodGet, "/api/admin/promotions", nil, &promotions); err != nil {
		return nil, err
	}
	return promotions, nil
}

// CreatePromotion schedules a promotion (admin only)
func (c *Client) CreatePromotion(ctx context.Context, r PromotionRequest) (*Promotion, error) {
	var promotion Promotion
	if err := c.doJSON(ctx, http.MethodPost, "/api/admin/promotions", r, &promotion); err != nil {
		return nil, err
	}
	return &promotion, nil
}

// DeletePromotion removes a scheduled promotion (admin only)
func (c *Client) DeletePromotion(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/admin/promotions/%s", url.PathEscape(id))
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}
