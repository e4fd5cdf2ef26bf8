package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/models"
)

// ShopUpdateRequest represents a seller's shop profile change
type ShopUpdateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// @Summary List shops
// @Description List approved shops, newest first
// @Tags shops
// @Produce json
// @Success 200 {array} models.Shop
// @Router /api/shops [get]
func (s *Server) listShops(c *gin.Context) {
	var shops []models.Shop
	if err := s.db.Where("status = ?", models.ShopStatusApproved).
		Order("created_at DESC").Find(&shops).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list shops")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, shops)
}

// @Summary Get shop
// @Description Get an approved shop by ID, with its product listings
// @Tags shops
// @Produce json
// @Param id path string true "Shop ID"
// @Success 200 {object} models.Shop
// @Failure 404 {object} map[string]interface{}
// @Router /api/shops/{id} [get]
func (s *Server) getShop(c *gin.Context) {
	var shop models.Shop
	if err := models.FindByIDWithPreload(s.db, c.Param("id"), &shop, "Products"); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shop not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// Unreviewed and rejected shops stay invisible to the public catalog
	if shop.Status != models.ShopStatusApproved {
		c.JSON(http.StatusNotFound, gin.H{"message": "Shop not found"})
		return
	}

	c.JSON(http.StatusOK, shop)
}

// sellerShop loads the calling seller's shop
func (s *Server) sellerShop(c *gin.Context) (*models.Shop, bool) {
	sessionData, _ := GetSessionData(c)

	var shop models.Shop
	if err := s.db.Where("owner_id = ?", sessionData.UserID).First(&shop).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shop not found"})
			return nil, false
		}
		s.logger.Error().Err(err).Msg("Failed to find seller shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return nil, false
	}
	return &shop, true
}

// @Summary Get own shop
// @Description Get the calling seller's shop, any status
// @Tags seller
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Shop
// @Failure 404 {object} map[string]interface{}
// @Router /api/seller/shop [get]
func (s *Server) getSellerShop(c *gin.Context) {
	shop, ok := s.sellerShop(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, shop)
}

// @Summary Update own shop
// @Description Update the calling seller's shop profile
// @Tags seller
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Shop
// @Failure 400 {object} map[string]interface{}
// @Router /api/seller/shop [put]
func (s *Server) updateSellerShop(c *gin.Context) {
	var req ShopUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	shop, ok := s.sellerShop(c)
	if !ok {
		return
	}

	if req.Name != "" {
		shop.Name = req.Name
	}
	if req.Description != "" {
		shop.Description = req.Description
	}

	if err := s.db.Save(shop).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to update shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update shop"})
		return
	}

	c.JSON(http.StatusOK, shop)
}

// @Summary List shops by status
// @Description List shops, optionally filtered by approval status (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} models.Shop
// @Router /api/admin/shops [get]
func (s *Server) adminListShops(c *gin.Context) {
	query := s.db.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var shops []models.Shop
	if err := query.Find(&shops).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list shops")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, shops)
}

// setShopStatus transitions a shop to the given status and, on approval,
// unlocks the owner's login
func (s *Server) setShopStatus(c *gin.Context, status string) {
	var shop models.Shop
	if err := models.FindByID(s.db, c.Param("id"), &shop); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Shop not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find shop")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if shop.Status != models.ShopStatusPending {
		c.JSON(http.StatusConflict, gin.H{"message": "Shop has already been reviewed"})
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&shop).Update("status", status).Error; err != nil {
			return err
		}
		if status != models.ShopStatusApproved {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", shop.OwnerID).
			Update("approved", true).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to update shop status")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update shop"})
		return
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("shop_id", shop.ID).
		Str("status", status).
		Str("reviewed_by", sessionData.UserID).
		Msg("Shop reviewed")

	shop.Status = status
	c.JSON(http.StatusOK, shop)
}

// @Summary Approve shop
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shop ID"
// @Success 200 {object} models.Shop
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/shops/{id}/approve [post]
func (s *Server) approveShop(c *gin.Context) {
	s.setShopStatus(c, models.ShopStatusApproved)
}

// @Summary Reject shop
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Shop ID"
// @Success 200 {object} models.Shop
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/shops/{id}/reject [post]
func (s *Server) rejectShop(c *gin.Context) {
	s.setShopStatus(c, models.ShopStatusRejected)
}
