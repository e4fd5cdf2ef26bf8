package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/models"
)

// ProductRequest represents a product create/update request. Price is
// integer cents.
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,gt=0"`
	Stock       int    `json:"stock" binding:"gte=0"`
}

// @Summary List shop products
// @Description List products of an approved shop
// @Tags shops
// @Produce json
// @Param id path string true "Shop ID"
// @Success 200 {array} models.Product
// @Failure 404 {object} map[string]interface{}
// @Router /api/shops/{id}/products [get]
func (s *Server) listShopProducts(c *gin.Context) {
	var shop models.Shop
	err := s.db.Where("id = ? AND status = ?", c.Param("id"), models.ShopStatusApproved).
		First(&shop).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shop not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	var products []models.Product
	if err := s.db.Where("shop_id = ?", shop.ID).Order("created_at DESC").Find(&products).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Get product
// @Description Get a product of an approved shop by ID
// @Tags shops
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]interface{}
// @Router /api/products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	var product models.Product
	err := s.db.Joins("Shop").
		Where("products.id = ? AND Shop.status = ?", c.Param("id"), models.ShopStatusApproved).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary List own products
// @Description List the calling seller's products
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Product
// @Router /api/seller/products [get]
func (s *Server) listSellerProducts(c *gin.Context) {
	shop, ok := s.sellerShop(c)
	if !ok {
		return
	}

	var products []models.Product
	if err := s.db.Where("shop_id = ?", shop.ID).Order("created_at DESC").Find(&products).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list products")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, products)
}

// @Summary Create product
// @Description Add a product to the calling seller's shop
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} map[string]interface{}
// @Router /api/seller/products [post]
func (s *Server) createProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	shop, ok := s.sellerShop(c)
	if !ok {
		return
	}

	product := &models.Product{
		ShopID:      shop.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	if err := s.db.Create(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
		return
	}

	s.logger.Info().
		Str("product_id", product.ID).
		Str("shop_id", shop.ID).
		Msg("Product created")

	c.JSON(http.StatusCreated, product)
}

// sellerProduct loads one of the calling seller's products by path ID,
// refusing products of other shops
func (s *Server) sellerProduct(c *gin.Context) (*models.Product, bool) {
	shop, ok := s.sellerShop(c)
	if !ok {
		return nil, false
	}

	var product models.Product
	err := s.db.Where("id = ? AND shop_id = ?", c.Param("id"), shop.ID).First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return nil, false
	}
	return &product, true
}

// @Summary Update product
// @Description Update one of the calling seller's products
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param request body ProductRequest true "Product"
// @Success 200 {object} models.Product
// @Failure 404 {object} map[string]interface{}
// @Router /api/seller/products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	product, ok := s.sellerProduct(c)
	if !ok {
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Stock = req.Stock

	if err := s.db.Save(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// @Summary Delete product
// @Description Delete one of the calling seller's products
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/seller/products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	product, ok := s.sellerProduct(c)
	if !ok {
		return
	}

	if err := s.db.Delete(product).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}

	s.logger.Info().Str("product_id", product.ID).Msg("Product deleted")

	c.Status(http.StatusNoContent)
}
