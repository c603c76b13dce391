package logging

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/learnhub-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DeleteOlderThan removes system_logs written before cutoff.
func DeleteOlderThan(db *gorm.DB, cutoff time.Time) (int64, error) {
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules the retention job. The caller stops the returned
// scheduler on shutdown.
func StartCleanup(db *gorm.DB, schedule string, retentionDays int) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		cutoff := time.Now().AddDate(0, 0, -retentionDays)
		deleted, err := DeleteOlderThan(db, cutoff)
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid log cleanup schedule %q: %w", schedule, err)
	}
	c.Start()
	return c, nil
}
