package migratorimpl

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// ScheduleMigrations registers a cron job that runs the full pipeline on the
// configured schedule. A no-op when MIGRATE_CRON is unset.
func (m *MigratorImpl) ScheduleMigrations(ctx context.Context) error {
	spec := m.Config.Migrator.CronSpec
	if spec == "" {
		m.Logger.Info("No migration schedule configured")
		return nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create migration scheduler: %w", err)
	}

	m.Logger.Info("Setting up scheduled migrations", "cron", spec)

	_, err = scheduler.NewJob(
		gocron.CronJob(spec, false),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				m.Logger.Info("Context cancelled, stopping scheduled migrations")
				return
			}

			m.Logger.Info("Running scheduled migration")

			runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
			defer cancel()

			if _, err := m.Migrate(runCtx); err != nil {
				m.Logger.Error("Scheduled migration failed", "error", err)
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule migrations: %w", err)
	}

	scheduler.Start()

	go func() {
		<-ctx.Done()
		m.Logger.Info("Stopping migration scheduler")
		if err := scheduler.Shutdown(); err != nil {
			m.Logger.Error("Failed to shut down migration scheduler", "error", err)
		}
	}()

	return nil
}
