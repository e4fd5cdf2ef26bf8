package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Promotion lifecycle tasks
	TypeActivatePromotion = "promotion:activate"
	TypeExpirePromotion   = "promotion:expire"
)

// PromotionPayload is the common payload for promotion tasks
type PromotionPayload struct {
	PromotionID string `json:"promotion_id"`
}

// NewActivatePromotionTask creates a task that applies a promotion's
// discounted price to its product
func NewActivatePromotionTask(promotionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PromotionPayload{PromotionID: promotionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeActivatePromotion, payload), nil
}

// NewExpirePromotionTask creates a task that restores a product's price when
// its promotion ends
func NewExpirePromotionTask(promotionID string) (*asynq.Task, error) {
	payload, err := json.Marshal(PromotionPayload{PromotionID: promotionID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeExpirePromotion, payload), nil
}

// ParsePromotionPayload parses the payload from an Asynq task
func ParsePromotionPayload(task *asynq.Task) (PromotionPayload, error) {
	var payload PromotionPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
