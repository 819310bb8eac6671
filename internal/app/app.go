package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/vampirepapi/link2notion/internal/dashboard"
	_ "github.com/vampirepapi/link2notion/internal/migrations"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/migrator/migratorimpl"
	"github.com/vampirepapi/link2notion/internal/notion"
	"github.com/vampirepapi/link2notion/internal/notion/notionimpl"
	repositories "github.com/vampirepapi/link2notion/internal/repositories/fx"
	"github.com/vampirepapi/link2notion/internal/scraper"
	"github.com/vampirepapi/link2notion/internal/scraper/scraperimpl"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"github.com/vampirepapi/link2notion/pkg/pgx"
	"go.uber.org/fx"
)

// Module wires everything except the config, which the CLI provides with its
// flag overrides applied.
var Module = fx.Options(
	fx.Provide(
		logger.FxOption,
		pgx.New,
	),
	fx.Provide(
		fx.Annotate(
			scraperimpl.New,
			fx.As(new(scraper.Client)),
		), fx.Annotate(
			notionimpl.New,
			fx.As(new(notion.Client)),
		), fx.Annotate(
			migratorimpl.New,
			fx.As(new(migrator.Client)),
		),
		dashboard.New,
	),
	repositories.Module,
	fx.Invoke(migrateDatabase),
)

// migrateDatabase applies the archive schema when Postgres is configured.
func migrateDatabase(cfg *config.Config, log logger.Logger) error {
	if !cfg.ArchiveEnabled() {
		return nil
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply archive migrations: %w", err)
	}

	log.Info("Archive schema is up to date")
	return nil
}

// RegisterServer starts the dashboard and the scheduled migrations for the
// serve command.
func RegisterServer(lc fx.Lifecycle, log logger.Logger, cfg *config.Config,
	srv *dashboard.Server, m migrator.Client) {
	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: srv.Handler(),
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				log.Info(fmt.Sprintf("Starting dashboard on :%d", cfg.App.Port))
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Dashboard server failed", "error", err)
				}
			}()

			return m.ScheduleMigrations(context.Background())
		},
		OnStop: func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	})
}
