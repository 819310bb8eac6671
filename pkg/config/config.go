package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// NotionProperties maps the migrator's fields onto the property names of the
// target Notion database. Properties absent from the live database schema are
// skipped when building page payloads.
type NotionProperties struct {
	Title    string `env:"NOTION_TITLE_PROPERTY" env-default:"Name"`
	Author   string `env:"NOTION_AUTHOR_PROPERTY" env-default:"Author"`
	URL      string `env:"NOTION_URL_PROPERTY" env-default:"Post URL"`
	PostedAt string `env:"NOTION_POSTED_AT_PROPERTY" env-default:"Date Posted"`
	SavedAt  string `env:"NOTION_SAVED_AT_PROPERTY" env-default:"Saved Date"`
	Content  string `env:"NOTION_CONTENT_PROPERTY" env-default:"Content"`
	URN      string `env:"NOTION_URN_PROPERTY" env-default:"LinkedIn URN"`
}

type Config struct {
	App struct {
		Env       string `env:"APP_ENV" env-default:"development"`
		Port      int    `env:"APP_PORT" env-default:"8080"`
		Verbose   bool   `env:"APP_VERBOSE" env-default:"false"`
		SentryUrl string `env:"SENTRY_URL"`
	}
	LinkedIn struct {
		Email    string `env:"LINKEDIN_EMAIL" env-required:"true"`
		Password string `env:"LINKEDIN_PASSWORD" env-required:"true"`
		Headless bool   `env:"HEADLESS" env-default:"true"`
	}
	Scraper struct {
		MaxScrolls     int           `env:"SCRAPER_MAX_SCROLLS" env-default:"60"`
		MaxIdleRounds  int           `env:"SCRAPER_MAX_IDLE_ROUNDS" env-default:"3"`
		ScrollPause    time.Duration `env:"SCRAPER_SCROLL_PAUSE" env-default:"1500ms"`
		NavTimeout     time.Duration `env:"SCRAPER_NAV_TIMEOUT" env-default:"45s"`
		CheckpointWait time.Duration `env:"SCRAPER_CHECKPOINT_WAIT" env-default:"30s"`
	}
	Notion struct {
		APIKey     string `env:"NOTION_API_KEY" env-required:"true"`
		DatabaseID string `env:"NOTION_DATABASE_ID" env-required:"true"`
	}
	NotionProperties NotionProperties
	Postgres         struct {
		Port    int    `env:"POSTGRES_PORT" env-default:"5432"`
		Host    string `env:"POSTGRES_HOST"`
		User    string `env:"POSTGRES_USER"`
		Pass    string `env:"POSTGRES_PASS"`
		Name    string `env:"POSTGRES_NAME"`
		SslMode string `env:"POSTGRES_SSL_MODE" env-default:"disable"`
	}
	Migrator struct {
		CronSpec string `env:"MIGRATE_CRON"`
	}
	Export struct {
		Dir string `env:"EXPORT_DIR" env-default:"exported_posts"`
	}
}

// Opts carries CLI-level overrides applied on top of the environment.
type Opts struct {
	EnvFile  string
	Verbose  bool
	Headless *bool
}

func New(opts Opts) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %q: %w", opts.EnvFile, err)
		}
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		help, _ := cleanenv.GetDescription(cfg, nil)
		return nil, fmt.Errorf("failed to read configuration: %w\n%s", err, help)
	}

	if opts.Verbose {
		cfg.App.Verbose = true
	}
	if opts.Headless != nil {
		cfg.LinkedIn.Headless = *opts.Headless
	}

	return cfg, nil
}

// ArchiveEnabled reports whether the optional Postgres archive is configured.
func (c *Config) ArchiveEnabled() bool {
	return c.Postgres.Host != ""
}

// GetDSN returns the lib/pq connection string used by goose.
func (c *Config) GetDSN() string {
	return fmt.Sprintf("dbname=%s user=%s password=%s host=%s port=%d sslmode=%s",
		c.Postgres.Name, c.Postgres.User, c.Postgres.Pass, c.Postgres.Host, c.Postgres.Port, c.Postgres.SslMode,
	)
}
