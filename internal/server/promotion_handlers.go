package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/models"
	"github.com/mallhub-dev/mallhub/internal/promo"
	"github.com/mallhub-dev/mallhub/internal/tasks"
)

// PromotionRequest represents a promotion create request
type PromotionRequest struct {
	ProductID    string    `json:"product_id" binding:"required"`
	Name         string    `json:"name" binding:"required"`
	DiscountRate int       `json:"discount_rate" binding:"required"`
	StartsAt     time.Time `json:"starts_at" binding:"required"`
	EndsAt       time.Time `json:"ends_at" binding:"required"`
}

// @Summary List promotions
// @Description List all promotions, newest first (admin only)
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Promotion
// @Router /api/admin/promotions [get]
func (s *Server) listPromotions(c *gin.Context) {
	var promotions []models.Promotion
	if err := s.db.Order("created_at DESC").Find(&promotions).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to list promotions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, promotions)
}

// @Summary Create promotion
// @Description Schedule a discount on a product (admin only). The discounted
// @Description price is derived from the product's current price.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PromotionRequest true "Promotion"
// @Success 201 {object} models.Promotion
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/promotions [post]
func (s *Server) createPromotion(c *gin.Context) {
	var req PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	var product models.Product
	if err := models.FindByID(s.db, req.ProductID, &product); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find product")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := promo.Validate(product.Price, req.DiscountRate, req.StartsAt, req.EndsAt); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	// One promotion per product at a time keeps price restoration unambiguous
	var overlapping int64
	err := s.db.Model(&models.Promotion{}).
		Where("product_id = ? AND status IN ?", product.ID,
			[]string{models.PromotionStatusScheduled, models.PromotionStatusActive}).
		Count(&overlapping).Error
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to check promotions")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	if overlapping > 0 {
		c.JSON(http.StatusConflict, gin.H{"message": "Product already has a pending promotion"})
		return
	}

	promotion := &models.Promotion{
		ProductID:    product.ID,
		Name:         req.Name,
		DiscountRate: req.DiscountRate,
		OldPrice:     product.Price,
		NewPrice:     promo.DiscountedPrice(product.Price, req.DiscountRate),
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Status:       models.PromotionStatusScheduled,
	}

	if err := s.db.Create(promotion).Error; err != nil {
		s.logger.Error().Err(err).Msg("Failed to create promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create promotion"})
		return
	}

	// Promotions starting in the past are picked up immediately instead of
	// waiting for the scheduler's next sweep
	if s.asynqClient != nil && !promotion.StartsAt.After(time.Now()) {
		if task, err := tasks.NewActivatePromotionTask(promotion.ID); err == nil {
			if _, err := s.asynqClient.Enqueue(task); err != nil {
				s.logger.Warn().Err(err).Str("promotion_id", promotion.ID).
					Msg("Failed to enqueue activation; scheduler will retry")
			}
		}
	}

	sessionData, _ := GetSessionData(c)
	s.logger.Info().
		Str("promotion_id", promotion.ID).
		Str("product_id", product.ID).
		Int("discount_rate", promotion.DiscountRate).
		Str("created_by", sessionData.UserID).
		Msg("Promotion created")

	c.JSON(http.StatusCreated, promotion)
}

// @Summary Delete promotion
// @Description Delete a promotion; an active one restores the product price
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Promotion ID"
// @Success 204
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/promotions/{id} [delete]
func (s *Server) deletePromotion(c *gin.Context) {
	var promotion models.Promotion
	if err := models.FindByID(s.db, c.Param("id"), &promotion); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Promotion not found"})
			return
		}
		s.logger.Error().Err(err).Msg("Failed to find promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if promotion.Status == models.PromotionStatusActive {
			err := tx.Model(&models.Product{}).
				Where("id = ?", promotion.ProductID).
				Update("price", promotion.OldPrice).Error
			if err != nil {
				return err
			}
		}
		return tx.Delete(&promotion).Error
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to delete promotion")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete promotion"})
		return
	}

	s.logger.Info().Str("promotion_id", promotion.ID).Msg("Promotion deleted")

	c.Status(http.StatusNoContent)
}
