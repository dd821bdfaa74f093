package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"PlatformOrderSaas/internal/config"
	"PlatformOrderSaas/internal/logger"
	"PlatformOrderSaas/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

type HousekeepingConfig struct {
	SweepSchedule   string
	SummarySchedule string
	TimeZone        string
}

func NewDefaultHousekeepingConfig() HousekeepingConfig {
	return HousekeepingConfig{
		SweepSchedule:   config.SessionSweepSchedule,
		SummarySchedule: config.UploadSummarySchedule,
		TimeZone:        config.DefaultTimeZone,
	}
}

// RunHousekeeping schedules the two recurring ingestion chores: sweeping
// expired preview sessions out of memory and writing a daily upload-volume
// summary to the audit log.
func RunHousekeeping(cfg HousekeepingConfig, db *pgxpool.Pool, sessions *session.Manager) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.TimeZone, err)
	}
	c := cron.New(cron.WithLocation(loc))

	_, err = c.AddFunc(cfg.SweepSchedule, func() {
		if n := sessions.CleanupExpired(); n > 0 {
			log.Printf("[INFO] session sweep discarded %d expired preview sessions", n)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}

	_, err = c.AddFunc(cfg.SummarySchedule, func() {
		logUploadSummary(db)
	})
	if err != nil {
		return fmt.Errorf("scheduling upload summary: %w", err)
	}

	c.Start()
	return nil
}

func logUploadSummary(db *pgxpool.Pool) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	rows, err := db.Query(ctx, `
		SELECT platform, COUNT(*), COALESCE(SUM(file_size), 0)
		FROM file_upload_tracking
		WHERE uploaded_at >= NOW() - INTERVAL '1 day'
		GROUP BY platform
		ORDER BY platform`)
	if err != nil {
		log.Printf("[ERROR] upload summary query failed: %v", err)
		return
	}
	defer rows.Close()

	total := 0
	for rows.Next() {
		var (
			platform string
			count    int
			bytes    int64
		)
		if err := rows.Scan(&platform, &count, &bytes); err != nil {
			log.Printf("[ERROR] upload summary scan failed: %v", err)
			return
		}
		total += count
		msg := fmt.Sprintf("daily upload summary: %s had %d uploads (%d bytes)", platform, count, bytes)
		log.Println("[INFO]", msg)
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(msg)
		}
	}
	if total == 0 {
		log.Println("[INFO] daily upload summary: no uploads in the last day")
	}
}
