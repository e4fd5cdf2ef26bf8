package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/mallhub-dev/mallhub/internal/models"
	"github.com/mallhub-dev/mallhub/internal/tasks"
)

// DefaultSweepSchedule sweeps for due promotions every minute
const DefaultSweepSchedule = "* * * * *"

// StartPromotionScheduler sweeps for promotions that are due to start or end
// and enqueues the matching lifecycle tasks. The sweep cadence is a standard
// cron expression.
func StartPromotionScheduler(schedule string, client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		logger.Error().Err(err).Str("schedule", schedule).
			Msg("Invalid sweep schedule, falling back to every minute")
		sched, _ = cron.ParseStandard(DefaultSweepSchedule)
	}

	// Run immediately on startup, then on the cron cadence
	sweepDuePromotions(client, db, logger)

	for {
		time.Sleep(time.Until(sched.Next(time.Now())))
		sweepDuePromotions(client, db, logger)
	}
}

func sweepDuePromotions(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	now := time.Now()

	var starting []models.Promotion
	err := db.Where("status = ? AND starts_at <= ?", models.PromotionStatusScheduled, now).
		Find(&starting).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to query promotions due to start")
		return
	}

	for _, p := range starting {
		task, err := tasks.NewActivatePromotionTask(p.ID)
		if err != nil {
			logger.Error().Err(err).Str("promotion_id", p.ID).Msg("Failed to build activation task")
			continue
		}
		if _, err := client.Enqueue(task, asynq.Queue("critical")); err != nil {
			logger.Error().Err(err).Str("promotion_id", p.ID).Msg("Failed to enqueue activation task")
		}
	}

	var ending []models.Promotion
	err = db.Where("status = ? AND ends_at <= ?", models.PromotionStatusActive, now).
		Find(&ending).Error
	if err != nil {
		logger.Error().Err(err).Msg("Failed to query promotions due to end")
		return
	}

	for _, p := range ending {
		task, err := tasks.NewExpirePromotionTask(p.ID)
		if err != nil {
			logger.Error().Err(err).Str("promotion_id", p.ID).Msg("Failed to build expiry task")
			continue
		}
		if _, err := client.Enqueue(task, asynq.Queue("critical")); err != nil {
			logger.Error().Err(err).Str("promotion_id", p.ID).Msg("Failed to enqueue expiry task")
		}
	}

	if len(starting) > 0 || len(ending) > 0 {
		logger.Info().
			Int("starting", len(starting)).
			Int("ending", len(ending)).
			Msg("Promotion sweep enqueued lifecycle tasks")
	}
}
