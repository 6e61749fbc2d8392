package utils

import (
	"context"
	"time"

	"elearn/config"
	"elearn/database"
	"elearn/logger"
	progressService "elearn/services/progress"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Minute

// InitializeProgressScheduler starts the nightly maintenance jobs: resync of
// progress documents that lag their course structure, and the streak reset.
func InitializeProgressScheduler(cfg *config.Config, svc *progressService.Service) (*cron.Cron, error) {
	logger.Log.Info("[PROGRESS-SCHEDULER] Initializing progress scheduler...")

	c := cron.New()

	if _, err := c.AddFunc(cfg.ReconcileCron, func() { ResyncStaleProgress(svc) }); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(cfg.StreakResetCron, ResetStreaks); err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[PROGRESS-SCHEDULER] Progress scheduler started", "reconcile", cfg.ReconcileCron, "streakReset", cfg.StreakResetCron)
	return c, nil
}

// ResyncStaleProgress reshapes every progress document whose structure
// version is behind its course.
func ResyncStaleProgress(svc *progressService.Service) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	logger.Log.Info("[PROGRESS-SCHEDULER] Running stale progress resync...")
	n, err := svc.ResyncStale(ctx)
	if err != nil {
		logger.Log.Error("[PROGRESS-SCHEDULER] Error resyncing stale progress", "error", err)
		return
	}
	logger.Log.Info("[PROGRESS-SCHEDULER] Stale progress resynced", "documents", n)
}

// ResetStreaks zeroes streaks of learners idle since before yesterday.
func ResetStreaks() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := progressService.ResetStaleStreaks(ctx, database.Database.Db)
	if err != nil {
		logger.Log.Error("[PROGRESS-SCHEDULER] Error resetting streaks", "error", err)
		return
	}
	logger.Log.Info("[PROGRESS-SCHEDULER] Streaks reset", "users", n)
}
