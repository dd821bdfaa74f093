package jobs

import (
	"fmt"
	"log"

	"PlatformOrderSaas/internal/logger"
	"PlatformOrderSaas/internal/serviceiface"
	"PlatformOrderSaas/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config   map[string]interface{}
	db       *pgxpool.Pool
	sessions *session.Manager
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool, sessions *session.Manager) serviceiface.Service {
	return &CronService{
		config:   cfg,
		db:       db,
		sessions: sessions,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("🚀 Starting cron service...")

	cfg := NewDefaultHousekeepingConfig()
	if s.config != nil {
		if schedule, ok := s.config["session_sweep_schedule"].(string); ok && schedule != "" {
			cfg.SweepSchedule = schedule
		}
		if schedule, ok := s.config["upload_summary_schedule"].(string); ok && schedule != "" {
			cfg.SummarySchedule = schedule
		}
	}

	if err := RunHousekeeping(cfg, s.db, s.sessions); err != nil {
		return fmt.Errorf("failed to start ingestion housekeeping: %v", err)
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with ingestion housekeeping")
	}
	log.Println("Cron service started — session sweep and upload summary scheduled")
	return nil
}

func (s *CronService) Stop() error {
	return nil
}
