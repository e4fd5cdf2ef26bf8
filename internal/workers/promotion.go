package workers

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/models"
	"github.com/mallhub-dev/mallhub/internal/tasks"
)

// HandleActivatePromotion applies the promotion's discounted price to its
// product and marks the promotion active. Promotions that already ended or
// were deleted are skipped; the handler is safe to retry.
func HandleActivatePromotion(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParsePromotionPayload(t)
	if err != nil {
		return err
	}

	var promotion models.Promotion
	if err := models.FindByID(db, payload.PromotionID, &promotion); err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn().Str("promotion_id", payload.PromotionID).Msg("Promotion vanished before activation")
			return nil
		}
		return err
	}

	if promotion.Status != models.PromotionStatusScheduled {
		logger.Debug().Str("promotion_id", promotion.ID).Str("status", promotion.Status).
			Msg("Promotion not scheduled, skipping activation")
		return nil
	}

	// A promotion whose window already closed goes straight to expired
	if !promotion.EndsAt.After(time.Now()) {
		return db.Model(&promotion).Update("status", models.PromotionStatusExpired).Error
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Product{}).
			Where("id = ?", promotion.ProductID).
			Update("price", promotion.NewPrice).Error
		if err != nil {
			return err
		}
		return tx.Model(&promotion).Update("status", models.PromotionStatusActive).Error
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("promotion_id", promotion.ID).
		Str("product_id", promotion.ProductID).
		Int64("new_price", promotion.NewPrice).
		Msg("Promotion activated")
	return nil
}

// HandleExpirePromotion restores the product's pre-promotion price and marks
// the promotion expired
func HandleExpirePromotion(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParsePromotionPayload(t)
	if err != nil {
		return err
	}

	var promotion models.Promotion
	if err := models.FindByID(db, payload.PromotionID, &promotion); err != nil {
		if err == gorm.ErrRecordNotFound {
			logger.Warn().Str("promotion_id", payload.PromotionID).Msg("Promotion vanished before expiry")
			return nil
		}
		return err
	}

	if promotion.Status != models.PromotionStatusActive {
		logger.Debug().Str("promotion_id", promotion.ID).Str("status", promotion.Status).
			Msg("Promotion not active, skipping expiry")
		return nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Product{}).
			Where("id = ?", promotion.ProductID).
			Update("price", promotion.OldPrice).Error
		if err != nil {
			return err
		}
		return tx.Model(&promotion).Update("status", models.PromotionStatusExpired).Error
	})
	if err != nil {
		return err
	}

	logger.Info().
		Str("promotion_id", promotion.ID).
		Str("product_id", promotion.ProductID).
		Int64("restored_price", promotion.OldPrice).
		Msg("Promotion expired")
	return nil
}
