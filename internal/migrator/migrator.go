package migrator

import (
	"context"

	"github.com/vampirepapi/link2notion/internal/domain"
)

// Summary holds the totals of one migration run.
type Summary struct {
	Scraped int
	Created int
	Skipped int
}

type Client interface {
	// Migrate runs the full pipeline: scrape saved posts, dedupe by URN and
	// upsert each post into Notion (existence check, then create-or-skip).
	Migrate(ctx context.Context) (Summary, error)

	// Sync upserts the given posts without scraping.
	Sync(ctx context.Context, posts []domain.SavedPost) (Summary, error)

	// LastPosts returns the posts from the most recent run.
	LastPosts() []domain.SavedPost

	// ScheduleMigrations registers a cron job running Migrate when a cron
	// spec is configured.
	ScheduleMigrations(ctx context.Context) error
}
