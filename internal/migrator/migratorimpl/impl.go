package migratorimpl

import (
	"context"
	"sync"

	"github.com/vampirepapi/link2notion/internal/domain"
	"github.com/vampirepapi/link2notion/internal/migrator"
	"github.com/vampirepapi/link2notion/internal/notion"
	"github.com/vampirepapi/link2notion/internal/repositories/archive"
	"github.com/vampirepapi/link2notion/internal/scraper"
	"github.com/vampirepapi/link2notion/pkg/config"
	"github.com/vampirepapi/link2notion/pkg/errors"
	"github.com/vampirepapi/link2notion/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Scraper scraper.Client
	Notion  notion.Client
	Archive archive.Repository
	Logger  logger.Logger
	Config  *config.Config
}

type MigratorImpl struct {
	Scraper scraper.Client
	Notion  notion.Client
	Archive archive.Repository
	Logger  logger.Logger
	Config  *config.Config

	mu        sync.Mutex
	lastPosts []domain.SavedPost
}

func New(opts Opts) *MigratorImpl {
	return &MigratorImpl{
		Scraper: opts.Scraper,
		Notion:  opts.Notion,
		Archive: opts.Archive,
		Logger:  opts.Logger.WithComponent("Migrator"),
		Config:  opts.Config,
	}
}

var _ migrator.Client = (*MigratorImpl)(nil)

func (m *MigratorImpl) Migrate(ctx context.Context) (migrator.Summary, error) {
	m.Logger.Info("Starting LinkedIn to Notion migration")

	posts, err := m.Scraper.ScrapeSavedPosts(ctx)
	if err != nil {
		return migrator.Summary{}, err
	}

	posts = Dedupe(posts)
	m.setLastPosts(posts)

	if len(posts) == 0 {
		m.Logger.Warn("No posts found to migrate")
		return migrator.Summary{}, nil
	}

	summary := m.upsert(ctx, posts)
	summary.Scraped = len(posts)

	if err := m.Archive.RecordRun(ctx, summary); err != nil {
		m.Logger.Warn("Failed to record migration run", "error", err)
	}

	m.Logger.Info("Migration complete",
		"scraped", summary.Scraped,
		"created", summary.Created,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

func (m *MigratorImpl) Sync(ctx context.Context, posts []domain.SavedPost) (migrator.Summary, error) {
	posts = Dedupe(posts)
	m.Logger.Info("Syncing posts with Notion", "count", len(posts))
	m.setLastPosts(posts)

	summary := m.upsert(ctx, posts)
	summary.Scraped = len(posts)
	return summary, nil
}

// upsert runs the create-or-skip workflow. Per-item failures are logged and
// counted as skips; the run continues.
func (m *MigratorImpl) upsert(ctx context.Context, posts []domain.SavedPost) migrator.Summary {
	var summary migrator.Summary

	for i, post := range posts {
		m.Logger.Info("Processing post", "index", i+1, "total", len(posts), "post", post.Summary())

		exists, err := m.Notion.PageExists(ctx, post.URN)
		if err != nil {
			m.Logger.Error("Failed to check for existing page", "urn", post.URN, "error", err)
			summary.Skipped++
			continue
		}
		if exists {
			m.Logger.Info("Post already exists in Notion, skipping", "urn", post.URN)
			summary.Skipped++
			continue
		}

		pageID, err := m.Notion.CreatePage(ctx, post)
		if err != nil {
			m.Logger.Error("Failed to create page", "post", post.Summary(), "error", err)
			summary.Skipped++
			continue
		}
		summary.Created++

		if err := m.Archive.Create(ctx, post, pageID); err != nil && !errors.Is(err, archive.ErrAlreadyExists) {
			m.Logger.Warn("Failed to archive post", "urn", post.URN, "error", err)
		}
	}

	return summary
}

func (m *MigratorImpl) LastPosts() []domain.SavedPost {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.SavedPost, len(m.lastPosts))
	copy(out, m.lastPosts)
	return out
}

func (m *MigratorImpl) setLastPosts(posts []domain.SavedPost) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastPosts = posts
}

// Dedupe drops posts with a blank URN and keeps the first occurrence of each
// URN, preserving order.
func Dedupe(posts []domain.SavedPost) []domain.SavedPost {
	seen := make(map[string]struct{}, len(posts))
	out := make([]domain.SavedPost, 0, len(posts))
	for _, post := range posts {
		if post.URN == "" {
			continue
		}
		if _, ok := seen[post.URN]; ok {
			continue
		}
		seen[post.URN] = struct{}{}
		out = append(out, post)
	}
	return out
}
